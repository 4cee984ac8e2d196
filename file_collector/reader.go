package file_collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Reader reads whole files as UTF-8 text, optionally through a content cache.
type Reader struct {
	cache  *ContentCache
	logger *zap.Logger
}

// NewReader creates a reader. cache may be nil.
func NewReader(cache *ContentCache, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{cache: cache, logger: logger}
}

// ReadText returns the file content decoded as UTF-8. Every failure wraps ErrReadFailure;
// a missing file additionally wraps ErrNotFound.
func (r *Reader) ReadText(path string) (string, error) {
	if r.cache != nil {
		if content, found := r.cache.Get(path); found {
			r.logger.Debug("Read file from cache", zap.String("path", path))
			return string(content), nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		r.logger.Debug("Failed to read file", zap.String("path", path), zap.Error(err))
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w: %s", ErrReadFailure, ErrNotFound, describePathError(err))
		}
		return "", fmt.Errorf("%w: %s", ErrReadFailure, describePathError(err))
	}

	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: invalid UTF-8 content", ErrReadFailure)
	}

	if r.cache != nil {
		if err := r.cache.Set(path, content); err != nil {
			r.logger.Debug("Failed to cache file content", zap.String("path", path), zap.Error(err))
		}
	}

	return string(content), nil
}

// describePathError drops the path from a *fs.PathError so messages stay short
// when they are later prefixed with the file name.
func describePathError(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Op + ": " + pathErr.Err.Error()
	}
	return err.Error()
}
