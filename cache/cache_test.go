package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(ctx, "a")
	if err != nil || string(got) != "1" {
		t.Fatalf("Get(a) = %q, %v", got, err)
	}

	now = now.Add(time.Minute)
	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
	if _, err := m.Get(ctx, "b"); err != nil {
		t.Fatalf("key without ttl should not expire: %v", err)
	}
}

func TestMemoryDeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "x", []byte("1"), time.Second)
	_ = m.Set(ctx, "y", []byte("2"), time.Hour)
	_ = m.Delete(ctx, "y")
	if _, err := m.Get(ctx, "y"); !errors.Is(err, ErrMiss) {
		t.Fatalf("deleted key still present")
	}

	now = now.Add(2 * time.Second)
	m.Sweep()
	if len(m.items) != 0 {
		t.Fatalf("sweep left %d items", len(m.items))
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	if _, ok := New(nil).(*Memory); !ok {
		t.Fatal("New(nil) should return the in-memory store")
	}
}

func TestKind(t *testing.T) {
	if got := Kind(New(nil)); got != "memory" {
		t.Errorf("Kind(New(nil)) = %q, want memory", got)
	}
	if got := Kind(NewRedis(nil)); got != "redis" {
		t.Errorf("Kind(NewRedis) = %q, want redis", got)
	}
}
