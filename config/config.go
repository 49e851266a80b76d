package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory" validate:"oneof=memory postgres redis"`
	DatabaseURL  string `env:"DATABASE_URL"                      validate:"required_if=StoreBackend postgres"`
	RedisURL     string `env:"REDIS_URL"                         validate:"required_if=StoreBackend redis"`

	ClientTokenSecret string        `env:"CLIENT_TOKEN_SECRET,required" validate:"required,min=32"`
	ClientIdleTTL     time.Duration `env:"CLIENT_IDLE_TTL" envDefault:"720h"   validate:"min=1m"`
	JanitorCron       string        `env:"JANITOR_CRON"    envDefault:"@hourly" validate:"required"`
	UILayoutTTL       time.Duration `env:"UI_LAYOUT_TTL"   envDefault:"1h"      validate:"min=1m"`

	ShippingFee           float64 `env:"SHIPPING_FEE"            envDefault:"9.99"        validate:"min=0"`
	FavoritesRequireLogin bool    `env:"FAVORITES_REQUIRE_LOGIN" envDefault:"true"`
	SigninPage            string  `env:"SIGNIN_PAGE"             envDefault:"signin.html" validate:"required"`
	LandingPage           string  `env:"LANDING_PAGE"            envDefault:"index.html"  validate:"required"`
	UIHitTolerance        float64 `env:"UI_HIT_TOLERANCE"        envDefault:"2"           validate:"min=0,max=50"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
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

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
