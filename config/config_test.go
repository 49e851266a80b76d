package config

import (
	"log/slog"
	"testing"
	"time"
)

const testSecret = "config-test-secret-at-least-32-chars"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLIENT_TOKEN_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreBackend != "memory" {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.ShippingFee != 9.99 {
		t.Errorf("ShippingFee = %v", cfg.ShippingFee)
	}
	if !cfg.FavoritesRequireLogin {
		t.Error("favorites should require login by default")
	}
	if cfg.ClientIdleTTL != 720*time.Hour {
		t.Errorf("ClientIdleTTL = %v", cfg.ClientIdleTTL)
	}
	if cfg.SigninPage != "signin.html" || cfg.LandingPage != "index.html" {
		t.Errorf("pages = %q, %q", cfg.SigninPage, cfg.LandingPage)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"CLIENT_TOKEN_SECRET": "short"}},
		{"postgres without url", map[string]string{"CLIENT_TOKEN_SECRET": testSecret, "STORE_BACKEND": "postgres"}},
		{"redis without url", map[string]string{"CLIENT_TOKEN_SECRET": testSecret, "STORE_BACKEND": "redis"}},
		{"unknown backend", map[string]string{"CLIENT_TOKEN_SECRET": testSecret, "STORE_BACKEND": "etcd"}},
		{"production without resend", map[string]string{"CLIENT_TOKEN_SECRET": testSecret, "ENV": "production"}},
		{"negative shipping", map[string]string{"CLIENT_TOKEN_SECRET": testSecret, "SHIPPING_FEE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLIENT_TOKEN_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("CLIENT_TOKEN_SECRET", testSecret)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := (&Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
