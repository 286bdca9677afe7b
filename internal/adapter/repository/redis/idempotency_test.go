package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreClaimAndReplay(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	// First caller claims the key.
	exists, cached, err := store.CheckAndSet(ctx, "key-1", []byte("claim-a"), time.Minute)
	if err != nil {
		t.Fatalf("check and set failed: %v", err)
	}
	if exists {
		t.Fatal("expected first claim to succeed")
	}
	if cached != nil {
		t.Fatalf("expected no cached value, got %s", cached)
	}

	// A concurrent caller loses the claim and observes the first one's value.
	exists, cached, err = store.CheckAndSet(ctx, "key-1", []byte("claim-b"), time.Minute)
	if err != nil {
		t.Fatalf("check and set failed: %v", err)
	}
	if !exists {
		t.Fatal("expected second claim to observe the key")
	}
	if string(cached) != "claim-a" {
		t.Fatalf("expected the first claim's value, got %s", cached)
	}

	// The first caller stores the final response; later callers replay it.
	if err := store.Update(ctx, "key-1", []byte(`{"ok":true}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, cached, err = store.CheckAndSet(ctx, "key-1", []byte("claim-c"), time.Minute)
	if err != nil {
		t.Fatalf("check and set failed: %v", err)
	}
	if !exists || string(cached) != `{"ok":true}` {
		t.Fatalf("expected stored response, got exists=%v cached=%s", exists, cached)
	}
}

func TestIdempotencyStoreClaimDoesNotOverwrite(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-2", []byte("original"), time.Minute); err != nil {
		t.Fatalf("check and set failed: %v", err)
	}

	// A losing claim must never replace the stored value.
	exists, cached, err := store.CheckAndSet(ctx, "key-2", []byte("intruder"), time.Minute)
	if err != nil {
		t.Fatalf("check and set failed: %v", err)
	}
	if !exists || string(cached) != "original" {
		t.Fatalf("expected original value, got exists=%v cached=%s", exists, cached)
	}
}

func TestIdempotencyStoreKeyExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-3", []byte("claim"), time.Second); err != nil {
		t.Fatalf("check and set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "key-3", []byte("claim"), time.Second)
	if err != nil {
		t.Fatalf("check and set failed: %v", err)
	}
	if exists {
		t.Fatal("expected key to expire")
	}
}
