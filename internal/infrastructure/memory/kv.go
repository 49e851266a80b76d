package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/voltforge-storefront/internal/repository"
)

// KV keeps every namespace in process memory. Data does not survive a
// restart; use it for local runs and tests.
type KV struct {
	mu        sync.RWMutex
	data      map[string]map[string]string
	lastTouch map[string]time.Time
	now       func() time.Time
}

func NewKV() *KV {
	return &KV{
		data:      make(map[string]map[string]string),
		lastTouch: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (kv *KV) Get(_ context.Context, namespace, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[namespace][key]
	return v, ok, nil
}

func (kv *KV) Set(_ context.Context, namespace, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	ns, ok := kv.data[namespace]
	if !ok {
		ns = make(map[string]string)
		kv.data[namespace] = ns
	}
	ns[key] = value
	kv.lastTouch[namespace] = kv.now()
	return nil
}

func (kv *KV) Delete(_ context.Context, namespace, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if ns, ok := kv.data[namespace]; ok {
		delete(ns, key)
		kv.lastTouch[namespace] = kv.now()
	}
	return nil
}

func (kv *KV) PurgeIdle(_ context.Context, before time.Time) (int, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	purged := 0
	for ns, at := range kv.lastTouch {
		if ns == repository.SharedNamespace || !at.Before(before) {
			continue
		}
		delete(kv.data, ns)
		delete(kv.lastTouch, ns)
		purged++
	}
	return purged, nil
}

func (kv *KV) Touch(_ context.Context, namespace string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.data[namespace]; ok {
		kv.lastTouch[namespace] = kv.now()
	}
	return nil
}

func (kv *KV) Ping(_ context.Context) error { return nil }

// Namespaces reports how many namespaces currently hold data.
func (kv *KV) Namespaces() int {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return len(kv.data)
}
