package repository

import (
	"context"
	"time"
)

// KV is the namespaced key-value substrate behind every collection. Values are
// opaque text; callers serialize on write and parse on read. Writes to a
// single key are atomic, nothing else is: concurrent read-modify-write cycles
// race and the last write wins.
type KV interface {
	// Get returns found=false when the key has never been written or was deleted.
	Get(ctx context.Context, namespace, key string) (value string, found bool, err error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error

	// PurgeIdle removes client namespaces with no activity since before and
	// reports how many were removed. The shared namespace is never purged.
	PurgeIdle(ctx context.Context, before time.Time) (int, error)
	// Touch marks a namespace as active without changing its data. Touching
	// an absent namespace is a no-op.
	Touch(ctx context.Context, namespace string) error

	Ping(ctx context.Context) error
}

// SharedNamespace holds data visible to every client: the catalog and the
// user directory.
const SharedNamespace = "shared"
