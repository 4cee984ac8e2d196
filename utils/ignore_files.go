package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFileName is read from the searched folder to extend the exclusions.
const IgnoreFileName = ".promptcat-ignore"

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for ignore patterns
var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// GetIgnorePatterns returns the glob patterns listed in baseFolder's
// .promptcat-ignore, converted to doublestar patterns relative to baseFolder.
// A missing file yields no patterns. Results are cached until the file's
// modification time changes.
func GetIgnorePatterns(baseFolder string) ([]string, error) {
	ignorePath := filepath.Join(baseFolder, IgnoreFileName)

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", IgnoreFileName, err)
	}

	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	content, err := os.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	patterns, err := ParseIgnorePatterns(content)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", IgnoreFileName, err)
	}

	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// ParseIgnorePatterns converts ignore file lines into doublestar patterns.
// Blank lines and # comments are skipped. A line without a slash matches at
// any depth; a bare name also excludes everything below a folder of that name.
// A line containing a slash is anchored at the base folder.
func ParseIgnorePatterns(content []byte) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, pattern := range expandIgnoreLine(line) {
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("bad pattern %q", line)
			}
			patterns = append(patterns, pattern)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func expandIgnoreLine(line string) []string {
	dirOnly := strings.HasSuffix(line, "/")
	line = strings.Trim(line, "/")
	if line == "" {
		return nil
	}

	if strings.Contains(line, "/") {
		if dirOnly {
			return []string{line + "/**"}
		}
		return []string{line, line + "/**"}
	}

	if dirOnly {
		return []string{"**/" + line + "/**"}
	}
	return []string{"**/" + line, "**/" + line + "/**"}
}

// ClearIgnoreCache clears all cached ignore patterns
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}

// GetIgnoreCacheStats returns statistics about the ignore pattern cache
func GetIgnoreCacheStats() map[string]interface{} {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	entries := make([]string, 0, len(ignoreCache))
	for path := range ignoreCache {
		entries = append(entries, path)
	}

	return map[string]interface{}{
		"cached_files":  len(ignoreCache),
		"cache_entries": entries,
	}
}
