// Package store gives typed, per-namespace access to a repository.KV.
//
// Nothing is cached: every Get parses the stored text and every Set
// serializes the whole value, so all readers of a key see the last write.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
	"github.com/ErlanBelekov/voltforge-storefront/internal/repository"
)

// Keys of the shared namespace.
const (
	KeyProducts = "products"
	KeyUsers    = "users"
)

// Keys of a client namespace.
const (
	KeyCurrentUser = "currentUser"
	KeyCart        = "cart"
	KeyFavorites   = "favorites"
	KeyReturnURL   = "returnUrl"
)

type Store struct {
	kv repository.KV
}

func New(kv repository.KV) *Store {
	return &Store{kv: kv}
}

// Shared is the namespace holding the catalog and the user directory.
func (s *Store) Shared() Scope {
	return Scope{kv: s.kv, namespace: repository.SharedNamespace}
}

// Client is the namespace of one browser.
func (s *Store) Client(clientID string) Scope {
	return Scope{kv: s.kv, namespace: clientID}
}

// Seed writes the catalog and an empty user directory, each only if absent.
func (s *Store) Seed(ctx context.Context, products []domain.Product) (bool, error) {
	shared := s.Shared()
	seeded, err := shared.setIfAbsent(ctx, KeyProducts, products)
	if err != nil {
		return false, err
	}
	if _, err := shared.setIfAbsent(ctx, KeyUsers, []domain.User{}); err != nil {
		return false, err
	}
	return seeded, nil
}

// InitClient writes the empty defaults of a client namespace, each only if
// absent.
func (s *Store) InitClient(ctx context.Context, clientID string) error {
	c := s.Client(clientID)
	defaults := []struct {
		key   string
		value any
	}{
		{KeyCart, []domain.CartLine{}},
		{KeyFavorites, []string{}},
		{KeyCurrentUser, (*domain.User)(nil)},
	}
	for _, d := range defaults {
		if _, err := c.setIfAbsent(ctx, d.key, d.value); err != nil {
			return err
		}
	}
	return nil
}

// TouchClient records activity on a client namespace so reads alone keep it
// from being purged as idle.
func (s *Store) TouchClient(ctx context.Context, clientID string) error {
	return s.kv.Touch(ctx, clientID)
}

type Scope struct {
	kv        repository.KV
	namespace string
}

// Get parses key into v. found is false when the key is absent, in which
// case v is left untouched.
func (sc Scope) Get(ctx context.Context, key string, v any) (bool, error) {
	defer observe("get", time.Now())

	raw, found, err := sc.kv.Get(ctx, sc.namespace, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (sc Scope) Set(ctx context.Context, key string, v any) error {
	defer observe("set", time.Now())

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return sc.kv.Set(ctx, sc.namespace, key, string(b))
}

// GetRaw and SetRaw store plain strings, used for the return URL.
func (sc Scope) GetRaw(ctx context.Context, key string) (string, bool, error) {
	defer observe("get", time.Now())
	return sc.kv.Get(ctx, sc.namespace, key)
}

func (sc Scope) SetRaw(ctx context.Context, key, value string) error {
	defer observe("set", time.Now())
	return sc.kv.Set(ctx, sc.namespace, key, value)
}

func (sc Scope) Remove(ctx context.Context, key string) error {
	defer observe("delete", time.Now())
	return sc.kv.Delete(ctx, sc.namespace, key)
}

func (sc Scope) setIfAbsent(ctx context.Context, key string, v any) (bool, error) {
	_, found, err := sc.kv.Get(ctx, sc.namespace, key)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	if err := sc.Set(ctx, key, v); err != nil {
		return false, err
	}
	return true, nil
}

func observe(op string, start time.Time) {
	metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
