package store

import (
	"errors"
	"testing"
)

func block(n int) [][]float64 {
	return [][]float64{make([]float64, n)}
}

func TestCacheBasic(t *testing.T) {
	cache := NewBlockCache(1024 * 1024)

	stats := cache.Stats()
	if stats.BlockCount != 0 {
		t.Errorf("Expected empty cache, got %d blocks", stats.BlockCount)
	}

	loadCount := 0
	samples, err := cache.Get(blockKey{0, 0, 0}, func() ([][]float64, error) {
		loadCount++
		return block(16), nil
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(samples) != 1 || len(samples[0]) != 16 {
		t.Errorf("Unexpected sample shape")
	}
	if loadCount != 1 {
		t.Errorf("Expected loader called once, got %d times", loadCount)
	}

	// Cache hit: loader must not run again.
	_, err = cache.Get(blockKey{0, 0, 0}, func() ([][]float64, error) {
		loadCount++
		return block(16), nil
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loadCount != 1 {
		t.Errorf("Expected loader not called on hit, called %d times", loadCount)
	}
}

func TestCacheLoadErrorNotCached(t *testing.T) {
	cache := NewBlockCache(0)

	wantErr := errors.New("boom")
	_, err := cache.Get(blockKey{0, 1, 2}, func() ([][]float64, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected loader error, got %v", err)
	}

	// A failed load leaves the key absent so the next Get tries again.
	loaded := false
	_, err = cache.Get(blockKey{0, 1, 2}, func() ([][]float64, error) {
		loaded = true
		return block(4), nil
	})
	if err != nil {
		t.Fatalf("Get after failure failed: %v", err)
	}
	if !loaded {
		t.Error("Expected loader to run after earlier failure")
	}
}

func TestCacheEviction(t *testing.T) {
	// Each 128-sample block is ~1KB plus overhead; budget fits about 4.
	cache := NewBlockCache(5 * 1024)

	for i := 0; i < 10; i++ {
		_, err := cache.Get(blockKey{0, i, 0}, func() ([][]float64, error) {
			return block(128), nil
		})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}

	stats := cache.Stats()
	if stats.BlockCount >= 10 {
		t.Errorf("Expected eviction, but cache holds %d blocks", stats.BlockCount)
	}
	if stats.UsedMemory > stats.MaxMemory {
		t.Errorf("Cache exceeded budget: %d > %d", stats.UsedMemory, stats.MaxMemory)
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewBlockCache(0)

	for i := 0; i < 5; i++ {
		_, err := cache.Get(blockKey{0, i, 0}, func() ([][]float64, error) {
			return block(8), nil
		})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if cache.Stats().BlockCount != 5 {
		t.Errorf("Expected 5 blocks, got %d", cache.Stats().BlockCount)
	}

	cache.Clear()
	if cache.Stats().BlockCount != 0 {
		t.Errorf("Expected empty cache after clear, got %d blocks", cache.Stats().BlockCount)
	}
}
