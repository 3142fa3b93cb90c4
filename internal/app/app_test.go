package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/app"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/config"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
)

const (
	testAPIKey = "secret-key-open-weather"

	londonPayload = `{
		"name": "London",
		"main": {"temp": 15.0, "humidity": 60, "pressure": 1013},
		"weather": [{"main": "Clouds", "description": "broken clouds"}],
		"wind": {"speed": 4.1, "deg": 250},
		"clouds": {"all": 75},
		"sys": {"sunrise": 1700000000, "sunset": 1700030000}
	}`
)

func newTestOpenWeatherServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")

		if q.Get("appid") != testAPIKey || q.Get("units") != "metric" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
			return
		}

		switch {
		case q.Get("q") == "London":
			_, _ = w.Write([]byte(londonPayload))
		case q.Get("lat") == "51.5" && q.Get("lon") == "-0.12":
			_, _ = w.Write([]byte(`{"main":{"temp":11.2,"humidity":93},"weather":[{"description":"mist"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(t *testing.T, providerURL string) config.Config {
	t.Helper()

	return config.Config{
		OpenWeather: config.OpenWeather{
			APIKey:  testAPIKey,
			URL:     providerURL,
			Timeout: time.Second,
		},
		Server: config.Server{Host: "127.0.0.1", Port: "0", ReadTimeout: 5},
		Breaker: config.Breaker{
			TimeInterval: 30,
			TimeTimeOut:  10,
			RepeatNumber: 5,
		},
		Timezone:     config.Location{Location: time.FixedZone("UTC+2", 2*60*60)},
		HTTPLogsPath: filepath.Join(t.TempDir(), "http.log"),
	}
}

func newContainer(t *testing.T, cfg config.Config) (app.ServiceContainer, *metricsSvc.Metrics) {
	t.Helper()

	return newContainerWithLogger(t, cfg, zerolog.Nop())
}

func newContainerWithLogger(
	t *testing.T, cfg config.Config, l zerolog.Logger,
) (app.ServiceContainer, *metricsSvc.Metrics) {
	t.Helper()

	met := metricsSvc.NewMetrics("weather_lookup_test")
	a := app.New(cfg, l, met)

	srvContainer, err := a.Init(context.Background())
	require.NoError(t, err)

	return srvContainer, met
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestApp_WeatherByCity(t *testing.T) {
	provider := newTestOpenWeatherServer(t)
	srvContainer, met := newContainer(t, testConfig(t, provider.URL))

	rec := get(srvContainer.Router, "/weather?city=London")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"city": "London",
		"temperature": 15,
		"description": "broken clouds",
		"humidity": 60,
		"pressure": 1013,
		"wind_speed": 4.1,
		"wind_deg": 250,
		"cloudiness": 75,
		"sunrise": "2023-11-15 00:13:20",
		"sunset": "2023-11-15 08:33:20"
	}`, rec.Body.String())

	assert.InDelta(t, 1, testutil.ToFloat64(met.WeatherRequestsTotal.WithLabelValues("city")), 0)
}

func TestApp_WeatherByCoordinates(t *testing.T) {
	provider := newTestOpenWeatherServer(t)
	srvContainer, _ := newContainer(t, testConfig(t, provider.URL))

	rec := get(srvContainer.Router, "/weather?lat=51.5&lon=-0.12")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"city":"(51.5, -0.12)","temperature":11.2,"description":"mist","humidity":93}`,
		rec.Body.String())
}

func TestApp_WeatherErrors(t *testing.T) {
	provider := newTestOpenWeatherServer(t)

	t.Run("missing parameters", func(t *testing.T) {
		srvContainer, met := newContainer(t, testConfig(t, provider.URL))

		rec := get(srvContainer.Router, "/weather")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"city or lat and lon query parameters are required"}`, rec.Body.String())
		assert.InDelta(t, 1,
			testutil.ToFloat64(met.WeatherErrorsTotal.WithLabelValues("none", "missing_parameter")), 0)
	})

	t.Run("unknown city", func(t *testing.T) {
		srvContainer, _ := newContainer(t, testConfig(t, provider.URL))

		rec := get(srvContainer.Router, "/weather?city=Atlantis")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch weather data","message":"city not found"}`, rec.Body.String())
	})

	t.Run("bad api key", func(t *testing.T) {
		cfg := testConfig(t, provider.URL)
		cfg.OpenWeather.APIKey = "wrong"
		srvContainer, _ := newContainer(t, cfg)

		rec := get(srvContainer.Router, "/weather?city=London")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch weather data","message":"Invalid API key"}`, rec.Body.String())
	})
}

func TestApp_ProviderUnreachable(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	srvContainer, met := newContainer(t, testConfig(t, closed.URL))

	rec := get(srvContainer.Router, "/weather?city=London")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to reach weather provider"}`, rec.Body.String())
	assert.InDelta(t, 1,
		testutil.ToFloat64(met.WeatherErrorsTotal.WithLabelValues("city", "network_error")), 0)
}

func TestApp_ProviderTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	cfg := testConfig(t, slow.URL)
	cfg.OpenWeather.Timeout = 50 * time.Millisecond
	srvContainer, _ := newContainer(t, cfg)

	rec := get(srvContainer.Router, "/weather?city=London")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to reach weather provider"}`, rec.Body.String())
}

func TestApp_BreakerOpensAfterRepeatedNetworkFailures(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	srvContainer, _ := newContainer(t, testConfig(t, closed.URL))

	for i := 0; i < 5; i++ {
		get(srvContainer.Router, "/weather?city=London")
	}
	assert.Equal(t, "open", srvContainer.Breaker.State())

	rec := get(srvContainer.Router, "/weather?city=London")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to reach weather provider"}`, rec.Body.String())
}

func TestApp_AuxiliaryRoutes(t *testing.T) {
	provider := newTestOpenWeatherServer(t)
	srvContainer, _ := newContainer(t, testConfig(t, provider.URL))

	index := get(srvContainer.Router, "/")
	assert.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), "<title>Weather lookup</title>")

	get(srvContainer.Router, "/weather?city=London")
	metrics := get(srvContainer.Router, "/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `weather_lookup_test_weather_requests_total{lookup="city"} 1`)
	assert.Contains(t, metrics.Body.String(), `weather_lookup_test_http_requests_total`)

	docs := get(srvContainer.Router, "/swagger/doc.json")
	assert.Equal(t, http.StatusOK, docs.Code)
	assert.Contains(t, docs.Body.String(), `"/weather"`)

	unknown := get(srvContainer.Router, "/nope")
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestApp_StartStopsOnCancel(t *testing.T) {
	provider := newTestOpenWeatherServer(t)
	a := app.New(testConfig(t, provider.URL), zerolog.Nop(), metricsSvc.NewMetrics("weather_lookup_test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Start(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestApp_ProviderUnreachableKeepsAPIKeyOutOfLogs(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	var buf bytes.Buffer
	srvContainer, _ := newContainerWithLogger(t, testConfig(t, closed.URL), zerolog.New(&buf))

	rec := get(srvContainer.Router, "/weather?city=London")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), "appid=REDACTED")
	assert.NotContains(t, buf.String(), testAPIKey)
}

func TestApp_CancelledRequestsDoNotOpenBreaker(t *testing.T) {
	blocking := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(blocking.Close)

	srvContainer, _ := newContainer(t, testConfig(t, blocking.URL))

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		req := httptest.NewRequest(http.MethodGet, "/weather?city=London", nil).WithContext(ctx)
		srvContainer.Router.ServeHTTP(httptest.NewRecorder(), req)
		cancel()
	}

	assert.Equal(t, "closed", srvContainer.Breaker.State())
}
