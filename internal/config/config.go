package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host        string `envconfig:"WEATHER_SERVER_HOST" default:"0.0.0.0"`
	Port        string `envconfig:"WEATHER_SERVER_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"WEATHER_SERVER_TIMEOUT" default:"10"`
}

type OpenWeather struct {
	APIKey  string        `envconfig:"OPENWEATHER_API_KEY"`
	URL     string        `envconfig:"OPENWEATHER_URL" default:"http://api.openweathermap.org/data/2.5/weather"`
	Timeout time.Duration `envconfig:"OPENWEATHER_TIMEOUT" default:"10s"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Tracing struct {
	Endpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"weather-lookup-api"`
}

// Location lets envconfig decode an IANA zone name.
type Location struct {
	*time.Location
}

func (l *Location) Decode(value string) error {
	loc, err := time.LoadLocation(value)
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", value, err)
	}
	l.Location = loc
	return nil
}

type Config struct {
	OpenWeather OpenWeather
	Server      Server
	Breaker     Breaker
	Tracing     Tracing

	Timezone Location `envconfig:"WEATHER_TIMEZONE" default:"UTC"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-lookup-api.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/weather-lookup-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}
