package file_collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meysamhadeli/promptcat/file_collector/contracts"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"go.uber.org/zap"
)

// DefaultMaxFiles caps the number of files a single search may return.
const DefaultMaxFiles = 200

// Options configures a FileCollector. Zero values fall back to the defaults.
// ExtraExcludes adds folder names to DefaultExcludes and never replaces them.
type Options struct {
	MaxFiles              int
	MaxFileSize           int64
	SampleSize            int
	NonPrintableThreshold float64
	ExtraExcludes         []string
	IncludeHidden         bool
	EnableCache           bool
	CacheSize             int
}

// FileCollector finds, classifies and reads text files.
type FileCollector struct {
	classifier    *Classifier
	reader        *Reader
	cache         *ContentCache
	maxFiles      int
	extraExcludes []string
	includeHidden bool
	logger        *zap.Logger
}

// NewFileCollector initializes a FileCollector from opts.
func NewFileCollector(opts Options, logger *zap.Logger) (contracts.IFileCollector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	classifier := NewClassifier()
	if opts.MaxFileSize > 0 {
		classifier.MaxFileSize = opts.MaxFileSize
	}
	if opts.SampleSize > 0 {
		classifier.SampleSize = opts.SampleSize
	}
	if opts.NonPrintableThreshold > 0 {
		classifier.Threshold = opts.NonPrintableThreshold
	}

	var cache *ContentCache
	if opts.EnableCache {
		var err error
		cache, err = NewContentCache(opts.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	return &FileCollector{
		classifier:    classifier,
		reader:        NewReader(cache, logger),
		cache:         cache,
		maxFiles:      maxFiles,
		extraExcludes: opts.ExtraExcludes,
		includeHidden: opts.IncludeHidden,
		logger:        logger,
	}, nil
}

func (fc *FileCollector) IsTextLike(path string) bool {
	return fc.classifier.IsTextLike(path)
}

func (fc *FileCollector) ReadText(path string) (string, error) {
	return fc.reader.ReadText(path)
}

// LoadTextFile classifies path and reads it when it is text.
func (fc *FileCollector) LoadTextFile(path string) (models.CollectedFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return models.CollectedFile{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if !fc.classifier.IsTextLike(absPath) {
		if _, statErr := os.Stat(absPath); errors.Is(statErr, fs.ErrNotExist) {
			return models.CollectedFile{}, fmt.Errorf("file %s: %w", absPath, ErrNotFound)
		}
		return models.CollectedFile{}, ErrNotText
	}

	content, err := fc.reader.ReadText(absPath)
	if err != nil {
		return models.CollectedFile{}, err
	}

	return models.CollectedFile{Path: absPath, Content: content}, nil
}

// GetCacheStats returns content cache statistics.
func (fc *FileCollector) GetCacheStats() map[string]interface{} {
	if fc.cache == nil {
		return map[string]interface{}{"cache_enabled": false}
	}
	return fc.cache.GetCacheStats()
}

// ClearCache drops every cached file content and restarts the hit and miss counters.
func (fc *FileCollector) ClearCache() {
	if fc.cache != nil {
		fc.cache.Clear()
		fc.cache.ResetStats()
	}
}
