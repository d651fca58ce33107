package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, For(Assets)); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}

	_ = s.Set(ctx, For(Assets), []byte(`[1]`))
	got, err := s.Get(ctx, For(Assets))
	if err != nil || string(got) != `[1]` {
		t.Fatalf("Get() = %q, %v", got, err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, ForID(Booking, 1), []byte(`{}`))
	time.Sleep(20 * time.Millisecond)

	if _, err := s.Get(ctx, ForID(Booking, 1)); !errors.Is(err, ErrMiss) {
		t.Errorf("expired entry should miss, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expired entry should be removed on read, len=%d", s.Len())
	}
}

func TestMemoryStore_DeletePartition(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, ForID(Booking, 1), []byte(`1`))
	_ = s.Set(ctx, ForID(Booking, 2), []byte(`2`))
	_ = s.Set(ctx, ForID(Asset, 1), []byte(`3`))

	_ = s.DeletePartition(ctx, Booking)

	if s.Len() != 1 {
		t.Errorf("expected only the asset entry to remain, len=%d", s.Len())
	}
	if _, err := s.Get(ctx, ForID(Asset, 1)); err != nil {
		t.Errorf("other partitions must survive: %v", err)
	}

	_ = s.Clear(ctx)
	if s.Len() != 0 {
		t.Errorf("Clear should drop everything, len=%d", s.Len())
	}
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	_ = s.Close()
	_ = s.Close()
}

func TestForQuery_DropsEmptyFilters(t *testing.T) {
	a := ForQuery(Assets, map[string]string{"search": "", "type": "tractor"})
	b := ForQuery(Assets, map[string]string{"type": "tractor"})
	if a != b {
		t.Errorf("equivalent filters should share a key: %v vs %v", a, b)
	}
	if ForQuery(Assets, nil) != For(Assets) {
		t.Error("no filters should equal the unfiltered key")
	}
}
