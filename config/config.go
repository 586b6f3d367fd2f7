package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	JWTSecret         string `env:"JWT_SECRET,required" validate:"required,min=32"`
	AccessTokenExpMin int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30" validate:"min=1,max=1440"`
	CodeExpirationSec int    `env:"CODE_EXPIRATION_SECONDS" envDefault:"300" validate:"min=10,max=3600"`
	NotifyTimeoutSec  int    `env:"NOTIFY_TIMEOUT_SECONDS" envDefault:"10" validate:"min=1,max=60"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	WeatherCacheExpSec int `env:"WEATHER_CACHE_EXPIRATION" envDefault:"300" validate:"min=10,max=86400"`
	MaxHistoryItems    int `env:"MAX_HISTORY_ITEMS" envDefault:"20" validate:"min=1,max=500"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpMin) * time.Minute
}

func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.CodeExpirationSec) * time.Second
}

func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSec) * time.Second
}

func (c *Config) WeatherCacheTTL() time.Duration {
	return time.Duration(c.WeatherCacheExpSec) * time.Second
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
