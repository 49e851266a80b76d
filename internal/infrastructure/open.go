// Package infrastructure selects the key-value backend named by STORE_BACKEND.
package infrastructure

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/voltforge-storefront/config"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure/memory"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure/redis"
	"github.com/ErlanBelekov/voltforge-storefront/internal/repository"
)

// OpenKV connects the configured backend. The returned close func is never nil.
func OpenKV(ctx context.Context, cfg *config.Config) (repository.KV, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("postgres: %w", err)
		}
		return postgres.NewKV(pool), pool.Close, nil

	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("redis: %w", err)
		}
		return redis.NewKV(client, cfg.ClientIdleTTL), func() { _ = client.Close() }, nil

	case "memory", "":
		return memory.NewKV(), func() {}, nil
	}
	return nil, func() {}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
