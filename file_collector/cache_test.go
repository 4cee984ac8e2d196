package file_collector

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test cache setup and basic operations
func TestContentCache_BasicOperations(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewContentCache(4)
	require.NoError(t, err)

	testFile := writeFile(t, dir, "test.txt", []byte("test content"))

	content, found := cache.Get(testFile)
	assert.False(t, found)
	assert.Nil(t, content)

	require.NoError(t, cache.Set(testFile, []byte("test content")))

	content, found = cache.Get(testFile)
	assert.True(t, found)
	assert.Equal(t, []byte("test content"), content)
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	_, found = cache.Get(testFile)
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

// Test cache invalidation when file is modified
func TestContentCache_FileInvalidation(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewContentCache(4)
	require.NoError(t, err)

	testFile := writeFile(t, dir, "test.txt", []byte("original content"))
	require.NoError(t, cache.Set(testFile, []byte("original content")))

	_, found := cache.Get(testFile)
	assert.True(t, found)

	require.NoError(t, os.WriteFile(testFile, []byte("modified content, longer"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(testFile, future, future))

	cachedContent, found := cache.Get(testFile)
	assert.False(t, found)
	assert.Nil(t, cachedContent)
	assert.Equal(t, 0, cache.Len())
}

func TestContentCache_MissingFile(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewContentCache(4)
	require.NoError(t, err)

	assert.Error(t, cache.Set(filepath.Join(dir, "missing.txt"), []byte("x")))

	testFile := writeFile(t, dir, "gone.txt", []byte("x"))
	require.NoError(t, cache.Set(testFile, []byte("x")))
	require.NoError(t, os.Remove(testFile))

	_, found := cache.Get(testFile)
	assert.False(t, found)
}

func TestContentCache_EvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewContentCache(2)
	require.NoError(t, err)

	a := writeFile(t, dir, "a.txt", []byte("a"))
	b := writeFile(t, dir, "b.txt", []byte("b"))
	c := writeFile(t, dir, "c.txt", []byte("c"))

	require.NoError(t, cache.Set(a, []byte("a")))
	require.NoError(t, cache.Set(b, []byte("b")))
	_, found := cache.Get(a)
	require.True(t, found)
	require.NoError(t, cache.Set(c, []byte("c")))

	_, found = cache.Get(b)
	assert.False(t, found)
	_, found = cache.Get(a)
	assert.True(t, found)

	stats := cache.GetCacheStats()
	assert.Equal(t, 2, stats["cache_files"])
	assert.Equal(t, int64(2), stats["total_size"])
	assert.Equal(t, int64(1), stats["evictions"])
}

func TestContentCache_LookupCounters(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewContentCache(4)
	require.NoError(t, err)

	testFile := writeFile(t, dir, "test.txt", []byte("x"))
	cache.Get(testFile)
	require.NoError(t, cache.Set(testFile, []byte("x")))
	cache.Get(testFile)
	cache.Get(testFile)

	stats := cache.GetCacheStats()
	assert.Equal(t, int64(3), stats["total_requests"])
	assert.Equal(t, int64(2), stats["cache_hits"])
	assert.Equal(t, int64(1), stats["cache_misses"])
	assert.InDelta(t, 66.66, stats["hit_rate"].(float64), 0.1)

	// Purging keeps the counters, and purged entries are not evictions.
	cache.Clear()
	stats = cache.GetCacheStats()
	assert.Equal(t, 0, stats["cache_files"])
	assert.Equal(t, int64(3), stats["total_requests"])
	assert.Equal(t, int64(0), stats["evictions"])

	cache.ResetStats()
	stats = cache.GetCacheStats()
	assert.Equal(t, int64(0), stats["total_requests"])
	assert.Equal(t, int64(0), stats["cache_hits"])
	assert.Equal(t, int64(0), stats["cache_misses"])
	assert.Equal(t, 0.0, stats["hit_rate"])
}

func TestContentCache_StaleEntryIsNotAnEviction(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewContentCache(4)
	require.NoError(t, err)

	testFile := writeFile(t, dir, "test.txt", []byte("x"))
	require.NoError(t, cache.Set(testFile, []byte("x")))
	require.NoError(t, os.WriteFile(testFile, []byte("longer"), 0644))

	_, found := cache.Get(testFile)
	assert.False(t, found)
	assert.Equal(t, int64(0), cache.GetCacheStats()["evictions"])
}
