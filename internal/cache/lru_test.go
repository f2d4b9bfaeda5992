package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUGetSetExpire(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	clock.t = clock.t.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expiry")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be removed on read")
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should remain")
	}
}

func TestLRUSetWithTTLAndClean(t *testing.T) {
	c, clock := newTestCache(10, time.Hour)
	c.SetWithTTL("short", "x", time.Second)
	c.Set("long", "y")
	clock.t = clock.t.Add(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatalf("long-lived entry should remain")
	}
	c.Delete("long")
	if c.Size() != 0 {
		t.Fatalf("expected empty cache")
	}
}

func TestManagerCleanAllAndStop(t *testing.T) {
	c, clock := newTestCache(10, time.Second)
	c.Set("a", "1")
	clock.t = clock.t.Add(time.Minute)

	m := NewManager(nil)
	m.Register("test", c)
	if n := m.CleanAll(); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) CleanExpired() int {
	c.calls.Add(1)
	return 0
}

func TestManagerRunStopsWithContext(t *testing.T) {
	cleaner := &countingCleaner{}
	m := NewManager(nil)
	m.Register("counting", cleaner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	deadline := time.Now().Add(5 * time.Second)
	for cleaner.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("cleanup never ran")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
