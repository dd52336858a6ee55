package kvstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("miss should be nil, nil; got %q, %v", got, err)
	}

	value := []byte(`[1,2,3]`)
	if err := s.Set(ctx, "k", value, 0); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'

	got, _ = s.Get(ctx, "k")
	if string(got) != `[1,2,3]` {
		t.Fatalf("stored value was aliased: %q", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "k"); got != nil {
		t.Fatalf("expected key to be gone, got %q", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}

	now = now.Add(30 * time.Second)
	if got, _ := s.Get(ctx, "k"); string(got) != "v" {
		t.Fatalf("key expired too early")
	}

	now = now.Add(time.Minute)
	if got, _ := s.Get(ctx, "k"); got != nil {
		t.Fatalf("key should have expired, got %q", got)
	}
}
