package probecache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestStoreAndLookup(t *testing.T) {
	cache := New(10, nil)
	cache.Store("/a.mp4", "aac")

	codec, ok := cache.Lookup("/a.mp4")
	if !ok || codec != "aac" {
		t.Fatalf("expected cached aac, got %q ok=%v", codec, ok)
	}
	if _, ok := cache.Lookup("/missing.mp4"); ok {
		t.Fatal("expected miss for unknown path")
	}
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	cache := New(3, nil)
	for i := 0; i < 3; i++ {
		cache.Store(fmt.Sprintf("/clip%d.mp4", i), "aac")
	}
	cache.Store("/clip3.mp4", "opus")

	if cache.Len() != 3 {
		t.Fatalf("expected len 3, got %d", cache.Len())
	}
	if _, ok := cache.Lookup("/clip0.mp4"); ok {
		t.Fatal("expected oldest entry evicted")
	}
	if codec, ok := cache.Lookup("/clip3.mp4"); !ok || codec != "opus" {
		t.Fatalf("expected newest entry present, got %q ok=%v", codec, ok)
	}
}

func TestStoreExistingPathKeepsEvictionPosition(t *testing.T) {
	cache := New(2, nil)
	cache.Store("/a.mp4", "aac")
	cache.Store("/b.mp4", "opus")
	cache.Store("/a.mp4", "pcm_s16le")
	cache.Store("/c.mp4", "aac")

	// "/a.mp4" was oldest despite the update, so it goes first.
	if _, ok := cache.Lookup("/a.mp4"); ok {
		t.Fatal("expected /a.mp4 evicted")
	}
	if _, ok := cache.Lookup("/b.mp4"); !ok {
		t.Fatal("expected /b.mp4 retained")
	}
}

func TestResolveProbesOnMissAndCaches(t *testing.T) {
	cache := New(10, nil)
	calls := 0
	probe := func(ctx context.Context, path string) (string, error) {
		calls++
		return "aac", nil
	}

	for i := 0; i < 3; i++ {
		codec, err := cache.Resolve(context.Background(), "/a.mp4", probe)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if codec != "aac" {
			t.Fatalf("expected aac, got %q", codec)
		}
	}
	if calls != 1 {
		t.Fatalf("expected single probe call, got %d", calls)
	}
}

func TestResolveDoesNotCacheFailures(t *testing.T) {
	cache := New(10, nil)
	calls := 0
	probe := func(ctx context.Context, path string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("probe failed")
		}
		return "opus", nil
	}

	if _, err := cache.Resolve(context.Background(), "/a.mp4", probe); err == nil {
		t.Fatal("expected first resolve to fail")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected failure not cached, len=%d", cache.Len())
	}

	codec, err := cache.Resolve(context.Background(), "/a.mp4", probe)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if codec != "opus" {
		t.Fatalf("expected opus after retry, got %q", codec)
	}
}

func TestConcurrentAccess(t *testing.T) {
	cache := New(100, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				path := fmt.Sprintf("/clip%d-%d.mp4", n, j)
				cache.Store(path, "aac")
				cache.Lookup(path)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 100 {
		t.Fatalf("cache exceeded capacity: %d", cache.Len())
	}
}
