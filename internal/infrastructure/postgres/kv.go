package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ErlanBelekov/voltforge-storefront/internal/repository"
)

// KV stores one row per (namespace, key). Every Set is a single upsert, so a
// write is atomic on its own and nothing more.
type KV struct {
	pool *pgxpool.Pool
}

func NewKV(pool *pgxpool.Pool) *KV {
	return &KV{pool: pool}
}

func (r *KV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`,
		namespace, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

func (r *KV) Set(ctx context.Context, namespace, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *KV) Delete(ctx context.Context, namespace, key string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`,
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *KV) PurgeIdle(ctx context.Context, before time.Time) (int, error) {
	var purged int64
	err := r.pool.QueryRow(ctx, `
		WITH idle AS (
			SELECT namespace FROM kv_entries
			WHERE  namespace <> $2
			GROUP BY namespace
			HAVING MAX(updated_at) < $1
		), deleted AS (
			DELETE FROM kv_entries
			WHERE namespace IN (SELECT namespace FROM idle)
			RETURNING namespace
		)
		SELECT COUNT(DISTINCT namespace) FROM deleted`,
		before, repository.SharedNamespace,
	).Scan(&purged)
	if err != nil {
		return 0, fmt.Errorf("purge idle namespaces: %w", err)
	}
	return int(purged), nil
}

func (r *KV) Touch(ctx context.Context, namespace string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE kv_entries SET updated_at = NOW() WHERE namespace = $1`,
		namespace,
	)
	if err != nil {
		return fmt.Errorf("touch %s: %w", namespace, err)
	}
	return nil
}

func (r *KV) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
