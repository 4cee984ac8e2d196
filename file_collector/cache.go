package file_collector

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the number of file contents kept in memory.
const DefaultCacheSize = 512

type cacheEntry struct {
	content  []byte
	snapshot models.FileSnapshot
}

// lookupCounters counts lookups and capacity evictions since the last reset.
type lookupCounters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	mu    sync.Mutex
	since time.Time
}

func (lc *lookupCounters) reset() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.hits.Store(0)
	lc.misses.Store(0)
	lc.evictions.Store(0)
	lc.since = time.Now()
}

func (lc *lookupCounters) fill(stats map[string]interface{}) {
	hits, misses := lc.hits.Load(), lc.misses.Load()
	requests := hits + misses

	hitRate := 0.0
	if requests > 0 {
		hitRate = float64(hits) / float64(requests) * 100
	}

	lc.mu.Lock()
	since := lc.since
	lc.mu.Unlock()

	stats["total_requests"] = requests
	stats["cache_hits"] = hits
	stats["cache_misses"] = misses
	stats["evictions"] = lc.evictions.Load()
	stats["hit_rate"] = hitRate
	stats["since"] = since.Format(time.RFC3339)
}

// ContentCache keeps recently read file contents in memory. Entries are
// invalidated as soon as the file's size or modification time changes.
type ContentCache struct {
	entries  *lru.Cache[uint64, *cacheEntry]
	counters *lookupCounters
}

// NewContentCache creates a cache holding at most size entries.
func NewContentCache(size int) (*ContentCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	entries, err := lru.New[uint64, *cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}

	return &ContentCache{
		entries:  entries,
		counters: &lookupCounters{since: time.Now()},
	}, nil
}

// generateCacheKey creates a unique cache key for a file
func generateCacheKey(filePath string) uint64 {
	return xxh3.HashString(filePath)
}

// isStale reports whether the file at filePath no longer matches snapshot.
// A file that cannot be stated is stale.
func isStale(filePath string, snapshot models.FileSnapshot) bool {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return true
	}
	return !fileInfo.ModTime().Equal(snapshot.ModTime) || fileInfo.Size() != snapshot.Size
}

// Get returns the cached content of filePath if the file is unchanged.
func (c *ContentCache) Get(filePath string) ([]byte, bool) {
	key := generateCacheKey(filePath)

	entry, found := c.entries.Get(key)
	if !found || entry.snapshot.Path != filePath {
		c.counters.misses.Add(1)
		return nil, false
	}

	if isStale(filePath, entry.snapshot) {
		c.entries.Remove(key)
		c.counters.misses.Add(1)
		return nil, false
	}

	c.counters.hits.Add(1)
	return entry.content, true
}

// Set stores content for filePath together with the file's current metadata.
func (c *ContentCache) Set(filePath string, content []byte) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	evicted := c.entries.Add(generateCacheKey(filePath), &cacheEntry{
		content: content,
		snapshot: models.FileSnapshot{
			Path:    filePath,
			ModTime: fileInfo.ModTime(),
			Size:    fileInfo.Size(),
		},
	})
	if evicted {
		c.counters.evictions.Add(1)
	}

	return nil
}

// Clear removes every entry without touching the counters.
func (c *ContentCache) Clear() {
	c.entries.Purge()
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *ContentCache) ResetStats() {
	c.counters.reset()
}

// Len returns the number of cached files.
func (c *ContentCache) Len() int {
	return c.entries.Len()
}

// GetCacheStats returns the entry count and stored bytes together with the
// lookup counters.
func (c *ContentCache) GetCacheStats() map[string]interface{} {
	var totalSize int64
	for _, key := range c.entries.Keys() {
		if entry, ok := c.entries.Peek(key); ok {
			totalSize += int64(len(entry.content))
		}
	}

	stats := map[string]interface{}{
		"cache_enabled": true,
		"cache_files":   c.entries.Len(),
		"total_size":    totalSize,
	}
	c.counters.fill(stats)

	return stats
}
