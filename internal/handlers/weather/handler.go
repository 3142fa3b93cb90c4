package weather

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/services/weather"
)

const (
	msgProviderFailed = "Failed to fetch weather data"
	msgNetworkFailed  = "Failed to reach weather provider"
	msgInternal       = "Internal server error"
)

type weatherGetterService interface {
	GetWeather(ctx context.Context, q models.Query) (models.WeatherReport, error)
}

// ErrorResponse is the body of every failed /weather call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	service weatherGetterService
	logger  zerolog.Logger
}

func NewHandler(svc weatherGetterService, logger zerolog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetWeather
// @Summary Get current weather
// @Description Returns current conditions for a city, or for a lat/lon pair when no city is given
// @Tags weather
// @Produce json
// @Param city query string false "City name"
// @Param lat query number false "Latitude, required with lon when city is absent"
// @Param lon query number false "Longitude, required with lat when city is absent"
// @Success 200 {object} models.WeatherReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	q, err := weather.ParseQuery(c.Query("city"), c.Query("lat"), c.Query("lon"))
	if err != nil {
		c.Set(metrics.LookupKey, "none")
		h.fail(c, err)
		return
	}
	c.Set(metrics.LookupKey, q.LookupType())

	data, err := h.service.GetWeather(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var werr *weather.Error
	if !errors.As(err, &werr) {
		werr = &weather.Error{Kind: weather.KindInternal, Err: err}
	}
	c.Set(metrics.ErrorTypeKey, werr.Kind.String())

	switch werr.Kind {
	case weather.KindMissingParameter, weather.KindInvalidParameter:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: werr.Err.Error()})
	case weather.KindProvider:
		c.JSON(providerStatus(werr.StatusCode), ErrorResponse{Error: msgProviderFailed, Message: werr.Message})
	case weather.KindNetwork:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgNetworkFailed})
	default:
		h.logger.Error().
			Ctx(c.Request.Context()).
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("internal error while handling weather lookup")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
	}
}

// providerStatus forwards the provider's status when it is an error status.
func providerStatus(code int) int {
	if code < http.StatusBadRequest || code > 599 {
		return http.StatusInternalServerError
	}
	return code
}
