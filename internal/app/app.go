package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/weather-lookup-api/docs"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/config"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/handlers/page"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/handlers/weather"
	loggerT "github.com/Nazarious-ucu/weather-lookup-api/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup-api/internal/services/weather"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/tracing"
	fLogger "github.com/Nazarious-ucu/weather-lookup-api/pkg/logger"
	"github.com/Nazarious-ucu/weather-lookup-api/web"
)

const (
	shutdownTimeout = 5 * time.Second

	pageTitle = "Weather lookup"
)

// ServiceContainer holds initialized dependencies for the HTTP server.
type ServiceContainer struct {
	WeatherService *serviceWeather.Service
	Breaker        *serviceWeather.BreakerClient

	Router *gin.Engine
	Srv    *http.Server

	fileLogger      *zap.Logger
	shutdownTracing tracing.ShutdownFunc
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start serves HTTP until ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Init(ctx)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		a.l.Info().Str("address", srvContainer.Srv.Addr).Msg("HTTP server running")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping weather service")
	case err = <-serveErr:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server failed")
		}
	}

	if shutdownErr := a.Shutdown(srvContainer); shutdownErr != nil {
		a.l.Error().Err(shutdownErr).Msg("failed to shutdown application")
		return errors.Join(err, shutdownErr)
	}
	a.l.Info().Msg("application shutdown successfully")
	return err
}

// Shutdown stops the HTTP server, flushes traces and syncs the file logger.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping weather service…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	defer func(logger *zap.Logger) {
		if err := logger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		} else {
			a.l.Info().Msg("file logger synced successfully")
		}
	}(srvContainer.fileLogger)

	var errs []error
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	if err := srvContainer.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Init builds the service graph and router without starting the server.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().
		Str("address", a.cfg.ServerAddress()).
		Str("provider_url", a.cfg.OpenWeather.URL).
		Dur("provider_timeout", a.cfg.OpenWeather.Timeout).
		Str("timezone", a.cfg.Timezone.String()).
		Msg("initializing weather service")

	if a.cfg.OpenWeather.APIKey == "" {
		a.l.Warn().Msg("OPENWEATHER_API_KEY is empty, provider calls will be rejected")
	}

	shutdownTracing, err := tracing.Setup(ctx, a.cfg.Tracing)
	if err != nil {
		return ServiceContainer{}, err
	}

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, outbound calls will not be logged")
		fileLogger = zap.NewNop()
	}

	// outbound client: request logging around otel instrumentation
	httpLogClient := &http.Client{
		Timeout:   a.cfg.OpenWeather.Timeout,
		Transport: loggerT.NewRoundTripper(fileLogger, otelhttp.NewTransport(http.DefaultTransport)),
	}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	openWeather := serviceWeather.NewBreakerClient("OpenWeather", breakerCfg,
		serviceWeather.NewClientOpenWeatherMap(a.cfg.OpenWeather.APIKey, a.cfg.OpenWeather.URL, httpLogClient, a.l),
	)
	weatherService := serviceWeather.NewService(a.l, openWeather, a.cfg.Timezone.Location)

	router, err := a.newRouter(weatherService)
	if err != nil {
		return ServiceContainer{}, err
	}

	httpServer := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		WeatherService:  weatherService,
		Breaker:         openWeather,
		Router:          router,
		Srv:             httpServer,
		fileLogger:      fileLogger,
		shutdownTracing: shutdownTracing,
	}, nil
}

func (a *App) newRouter(weatherService *serviceWeather.Service) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(a.m.HTTPMiddleware())
	router.SetHTMLTemplate(tmpl)

	pageHandler := page.NewHandler(pageTitle)
	weatherHandler := weather.NewHandler(weatherService, a.l)

	router.GET("/", pageHandler.Index)
	router.GET("/weather", weatherHandler.GetWeather)
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	return router, nil
}
