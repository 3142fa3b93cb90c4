package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
	httplog "github.com/Nazarious-ucu/weather-lookup-api/internal/services/logger"
)

const (
	tracerName   = "github.com/Nazarious-ucu/weather-lookup-api/internal/services/weather"
	maxErrorBody = 64 << 10
)

type providerErrorBody struct {
	Message string `json:"message"`
}

// ClientOpenWeatherMap fetches current conditions from the OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{
		apiKey: apiKey,
		apiURL: apiURL,
		client: httpClient,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Fetch performs one provider call for q. It never retries.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, q models.Query) (models.Observation, error) {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "openweathermap.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("weather.lookup", q.LookupType()),
		attribute.String("weather.location", q.Label()),
	)

	target, err := s.buildURL(q)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Msg("failed to build OpenWeatherMap URL")
		return s.fail(span, newError(KindInternal, err))
	}

	s.logger.Debug().
		Ctx(ctx).
		Str("lookup", q.LookupType()).
		Str("location", q.Label()).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("location", q.Label()).
			Msg("failed to create HTTP request")
		return s.fail(span, newError(KindInternal, err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		err = redactTransportError(req, err)
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("location", q.Label()).
			Msg("error sending HTTP request to OpenWeatherMap")
		return s.fail(span, newError(KindNetwork, err))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Ctx(ctx).
				Err(cerr).
				Str("location", q.Label()).
				Msg("failed to close response body")
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		perr := &Error{
			Kind:       KindProvider,
			StatusCode: resp.StatusCode,
			Message:    providerMessage(resp),
		}
		s.logger.Error().
			Ctx(ctx).
			Str("location", q.Label()).
			Int("status_code", resp.StatusCode).
			Str("provider_message", perr.Message).
			Msg("OpenWeatherMap API returned non-2xx status")
		return s.fail(span, perr)
	}

	var obs models.Observation
	if err := json.NewDecoder(resp.Body).Decode(&obs); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("location", q.Label()).
			Msg("failed to decode OpenWeatherMap response")
		return s.fail(span, newError(KindInternal, fmt.Errorf("decode provider response: %w", err)))
	}

	s.logger.Info().
		Ctx(ctx).
		Str("location", q.Label()).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return obs, nil
}

func (s *ClientOpenWeatherMap) buildURL(q models.Query) (string, error) {
	u, err := url.Parse(s.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse provider URL: %w", err)
	}

	params := u.Query()
	if q.ByCity() {
		params.Set("q", q.City)
	} else {
		params.Set("lat", q.Lat)
		params.Set("lon", q.Lon)
	}
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func (s *ClientOpenWeatherMap) fail(span trace.Span, err *Error) (models.Observation, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Kind.String())
	return models.Observation{}, err
}

// redactTransportError rebuilds the *url.Error returned by Do so its text
// carries the request URL without the API key.
func redactTransportError(req *http.Request, err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: httplog.RedactURL(req.URL), Err: uerr.Err}
}

// providerMessage pulls "message" out of an error body, falling back to the
// status text when the body is not the usual JSON shape.
func providerMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var payload providerErrorBody
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
