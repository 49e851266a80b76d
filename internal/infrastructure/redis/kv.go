package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ErlanBelekov/voltforge-storefront/internal/repository"
)

const keyPrefix = "storefront:"

// KV keeps each namespace in one hash, "storefront:{namespace}", one field per
// key. Client hashes carry the idle TTL, refreshed on every write and Touch,
// so Redis expires idle namespaces as a whole.
type KV struct {
	client  *redis.Client
	idleTTL time.Duration
}

func NewKV(client *redis.Client, idleTTL time.Duration) *KV {
	return &KV{client: client, idleTTL: idleTTL}
}

func hashKey(namespace string) string {
	return keyPrefix + namespace
}

func (r *KV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, hashKey(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return v, true, nil
}

func (r *KV) Set(ctx context.Context, namespace, key, value string) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hashKey(namespace), key, value)
	if namespace != repository.SharedNamespace && r.idleTTL > 0 {
		pipe.Expire(ctx, hashKey(namespace), r.idleTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *KV) Delete(ctx context.Context, namespace, key string) error {
	if err := r.client.HDel(ctx, hashKey(namespace), key).Err(); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// PurgeIdle is a no-op: client hashes expire through their TTL.
func (r *KV) PurgeIdle(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

// Touch pushes the expiry of a client hash out by the idle TTL. EXPIRE on a
// missing key does nothing.
func (r *KV) Touch(ctx context.Context, namespace string) error {
	if namespace == repository.SharedNamespace || r.idleTTL <= 0 {
		return nil
	}
	if err := r.client.Expire(ctx, hashKey(namespace), r.idleTTL).Err(); err != nil {
		return fmt.Errorf("touch %s: %w", namespace, err)
	}
	return nil
}

func (r *KV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
