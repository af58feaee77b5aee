package store

import (
	"container/list"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// blockKey identifies one raster block at one resolution level.
type blockKey struct {
	level, col, row int
}

func (k blockKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.level, k.col, k.row)
}

// BlockCache keeps fetched raster blocks in memory with LRU eviction.
//
// The cache is the only state shared between workers during a run, so it must
// be safe for concurrent read and fetch. Concurrent requests for the same
// uncached block coalesce into exactly one underlying fetch via singleflight;
// a cached block is never re-fetched while it remains resident.
type BlockCache struct {
	maxMemory  int64
	usedMemory int64
	blocks     map[blockKey]*cacheEntry
	lru        *list.List
	mu         sync.RWMutex
	flight     singleflight.Group
}

type cacheEntry struct {
	key        blockKey
	samples    [][]float64
	memorySize int64
	element    *list.Element
}

// NewBlockCache creates a cache with the given memory budget in bytes.
// A budget of 0 means unlimited.
func NewBlockCache(maxMemoryBytes int64) *BlockCache {
	return &BlockCache{
		maxMemory: maxMemoryBytes,
		blocks:    make(map[blockKey]*cacheEntry),
		lru:       list.New(),
	}
}

// Get returns the cached samples for key, or invokes loader to fetch them.
// Concurrent callers for the same missing key share a single loader call.
func (c *BlockCache) Get(key blockKey, loader func() ([][]float64, error)) ([][]float64, error) {
	c.mu.RLock()
	if entry, ok := c.blocks[key]; ok {
		c.mu.RUnlock()

		c.mu.Lock()
		if entry.element != nil {
			c.lru.MoveToFront(entry.element)
		}
		c.mu.Unlock()

		metricCacheHits.Inc()
		return entry.samples, nil
	}
	c.mu.RUnlock()

	metricCacheMisses.Inc()
	samples, err, _ := c.flight.Do(key.String(), func() (interface{}, error) {
		// Another flight member may have populated the cache between the
		// miss and this call.
		c.mu.RLock()
		if entry, ok := c.blocks[key]; ok {
			c.mu.RUnlock()
			return entry.samples, nil
		}
		c.mu.RUnlock()

		loaded, err := loader()
		if err != nil {
			return nil, err
		}
		c.add(key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return samples.([][]float64), nil
}

func (c *BlockCache) add(key blockKey, samples [][]float64) {
	memSize := estimateBlockMemory(samples)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.blocks[key]; ok {
		return
	}

	// A block larger than the whole budget is served but not retained.
	if c.maxMemory > 0 && memSize > c.maxMemory {
		return
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{key: key, samples: samples, memorySize: memSize}
	entry.element = c.lru.PushFront(entry)
	c.blocks[key] = entry
	c.usedMemory += memSize
}

// evictLRU removes the least recently used block. Must be called with c.mu
// locked.
func (c *BlockCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.blocks, entry.key)
	c.usedMemory -= entry.memorySize
	metricCacheEvictions.Inc()
}

// Clear removes all cached blocks.
func (c *BlockCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = make(map[blockKey]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns a snapshot of cache occupancy.
func (c *BlockCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		BlockCount: len(c.blocks),
		UsedMemory: c.usedMemory,
		MaxMemory:  c.maxMemory,
	}
}

// CacheStats holds cache occupancy metrics.
type CacheStats struct {
	BlockCount int   // Number of blocks currently cached
	UsedMemory int64 // Estimated memory usage in bytes
	MaxMemory  int64 // Memory budget in bytes (0 = unlimited)
}

// estimateBlockMemory estimates the resident size of a block: 8 bytes per
// sample plus slice overhead.
func estimateBlockMemory(samples [][]float64) int64 {
	size := int64(64)
	for _, band := range samples {
		size += int64(len(band))*8 + 24
	}
	return size
}
