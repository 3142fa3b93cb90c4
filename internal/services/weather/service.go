package weather

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

type client interface {
	Fetch(ctx context.Context, q models.Query) (models.Observation, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service turns provider observations into weather reports.
type Service struct {
	logger zerolog.Logger
	client client
	loc    *time.Location
}

// NewService builds a Service. Sunrise and sunset are rendered in loc
// (UTC when nil).
func NewService(logger zerolog.Logger, cl client, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{logger: logger, client: cl, loc: loc}
}

func (s *Service) GetWeather(ctx context.Context, q models.Query) (models.WeatherReport, error) {
	s.logger.Info().
		Ctx(ctx).
		Str("lookup", q.LookupType()).
		Str("location", q.Label()).
		Msg("calling Fetch")

	obs, err := s.client.Fetch(ctx, q)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("location", q.Label()).
			Str("error_kind", KindOf(err).String()).
			Err(err).
			Msg("fetch failed")
		return models.WeatherReport{}, err
	}

	report, err := newReport(q, obs, s.loc)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("location", q.Label()).
			Err(err).
			Msg("unexpected provider payload")
		return models.WeatherReport{}, err
	}

	return report, nil
}

func newReport(q models.Query, obs models.Observation, loc *time.Location) (models.WeatherReport, error) {
	if obs.Main == nil || obs.Main.Temp == nil {
		return models.WeatherReport{}, missingField("main.temp")
	}
	if obs.Main.Humidity == nil {
		return models.WeatherReport{}, missingField("main.humidity")
	}
	if len(obs.Weather) == 0 {
		return models.WeatherReport{}, missingField("weather[0]")
	}
	if obs.Weather[0].Description == nil {
		return models.WeatherReport{}, missingField("weather[0].description")
	}

	report := models.WeatherReport{
		City:        q.Label(),
		Temperature: *obs.Main.Temp,
		Description: *obs.Weather[0].Description,
		Humidity:    *obs.Main.Humidity,
		Pressure:    obs.Main.Pressure,
	}

	if obs.Wind != nil {
		report.WindSpeed = obs.Wind.Speed
		report.WindDeg = obs.Wind.Deg
	}
	if obs.Clouds != nil {
		report.Cloudiness = obs.Clouds.All
	}
	if obs.Sys != nil {
		if obs.Sys.Sunrise != nil {
			report.Sunrise = FormatTimestamp(*obs.Sys.Sunrise, loc)
		}
		if obs.Sys.Sunset != nil {
			report.Sunset = FormatTimestamp(*obs.Sys.Sunset, loc)
		}
	}

	return report, nil
}

func missingField(field string) *Error {
	return newError(KindInternal, errors.New("provider payload missing "+field))
}
