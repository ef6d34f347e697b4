package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/cache"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := cache.NewMemory()
	defer store.Close()
	ctx := context.Background()

	type payload struct {
		UserID int    `json:"user_id"`
		Note   string `json:"note"`
	}

	if err := store.Set(ctx, "k", payload{UserID: 7, Note: "hello"}, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if !store.Get(ctx, "k", &got) {
		t.Fatal("expected a hit")
	}
	if got.UserID != 7 || got.Note != "hello" {
		t.Errorf("got %+v", got)
	}

	var miss payload
	if store.Get(ctx, "absent", &miss) {
		t.Error("expected a miss for an absent key")
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	store := cache.NewMemory()
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "short", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var got string
	if store.Get(ctx, "short", &got) {
		t.Error("expected the entry to have expired")
	}
}

func TestMemoryDel(t *testing.T) {
	store := cache.NewMemory()
	defer store.Close()
	ctx := context.Background()

	_ = store.Set(ctx, "a", 1, 0)
	_ = store.Set(ctx, "b", 2, 0)
	if err := store.Del(ctx, "a", "b", "missing"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, have %d entries", store.Len())
	}
}
