package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ErlanBelekov/voltforge-storefront/internal/repository"
)

func mustSet(t *testing.T, kv *KV, namespace, key, value string) {
	t.Helper()
	if err := kv.Set(context.Background(), namespace, key, value); err != nil {
		t.Fatalf("set %s/%s: %v", namespace, key, err)
	}
}

func TestKV_GetMissingKey(t *testing.T) {
	kv := NewKV()

	v, found, err := kv.Get(context.Background(), "client-1", "cart")
	if err != nil {
		t.Fatal(err)
	}
	if found || v != "" {
		t.Errorf("got %q found=%v, want nothing", v, found)
	}
}

func TestKV_SetThenGet(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	mustSet(t, kv, "client-1", "cart", `[]`)

	v, found, err := kv.Get(ctx, "client-1", "cart")
	if err != nil || !found || v != `[]` {
		t.Errorf("got %q found=%v err=%v, want []", v, found, err)
	}

	// namespaces must not leak into each other
	if _, found, _ := kv.Get(ctx, "client-2", "cart"); found {
		t.Error("client-2 sees client-1's cart")
	}
}

func TestKV_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	mustSet(t, kv, "client-1", "returnUrl", "/cart.html")

	for _, ns := range []string{"client-1", "client-1", "never-seen"} {
		if err := kv.Delete(ctx, ns, "returnUrl"); err != nil {
			t.Fatalf("delete %s: %v", ns, err)
		}
	}

	if _, found, _ := kv.Get(ctx, "client-1", "returnUrl"); found {
		t.Error("key still present after delete")
	}
}

func TestKV_PurgeIdle(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return clock }

	mustSet(t, kv, repository.SharedNamespace, "products", `[]`)
	mustSet(t, kv, "stale", "cart", `[]`)

	clock = clock.Add(2 * time.Hour)
	mustSet(t, kv, "fresh", "cart", `[]`)

	purged, err := kv.PurgeIdle(ctx, clock.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	tests := []struct {
		namespace, key string
		want           bool
	}{
		{"stale", "cart", false},
		{"fresh", "cart", true},
		{repository.SharedNamespace, "products", true},
	}
	for _, tt := range tests {
		if _, found, _ := kv.Get(ctx, tt.namespace, tt.key); found != tt.want {
			t.Errorf("%s/%s found = %v, want %v", tt.namespace, tt.key, found, tt.want)
		}
	}
	if n := kv.Namespaces(); n != 2 {
		t.Errorf("namespaces = %d, want 2", n)
	}
}

func TestKV_ReadsOnlyClientSurvivesPurgeWhenTouched(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return clock }

	mustSet(t, kv, "browsing", "currentUser", `{"id":"u1"}`)
	mustSet(t, kv, "left", "currentUser", `{"id":"u2"}`)

	// a day of reads with a touch per request, no writes
	for range 3 {
		clock = clock.Add(8 * time.Hour)
		if _, _, err := kv.Get(ctx, "browsing", "currentUser"); err != nil {
			t.Fatal(err)
		}
		if err := kv.Touch(ctx, "browsing"); err != nil {
			t.Fatal(err)
		}
	}

	purged, err := kv.PurgeIdle(ctx, clock.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if _, found, _ := kv.Get(ctx, "browsing", "currentUser"); !found {
		t.Error("session of an active reader was purged")
	}
	if _, found, _ := kv.Get(ctx, "left", "currentUser"); found {
		t.Error("idle session survived")
	}
}

func TestKV_TouchAbsentNamespaceCreatesNothing(t *testing.T) {
	kv := NewKV()
	if err := kv.Touch(context.Background(), "never-seen"); err != nil {
		t.Fatal(err)
	}
	if n := kv.Namespaces(); n != 0 {
		t.Errorf("namespaces = %d, want 0", n)
	}
	if purged, _ := kv.PurgeIdle(context.Background(), time.Now().Add(time.Hour)); purged != 0 {
		t.Errorf("purged = %d, want 0", purged)
	}
}
