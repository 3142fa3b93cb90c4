package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/app"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/config"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup-api/pkg/logger"
)

const serviceName = "weather_lookup"

// @title Weather Lookup API
// @version 1.0
// @description Current weather by city or coordinates, proxied from OpenWeatherMap
// @host localhost:8080
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, "weather-lookup-api", cfg.LogLevel)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	application := app.New(*cfg, l, metricsSvc.NewMetrics(serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		l.Fatal().Err(err).Msg("application failed to run")
	}
}
