package file_collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Search expands query into glob patterns and runs SearchPatterns.
func (fc *FileCollector) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	include := IncludePatterns(query.Extensions)
	ignore := IgnorePatterns(fc.extraExcludes, query.ExcludeFolders)
	ignore = append(ignore, query.ExtraIgnore...)

	return fc.SearchPatterns(ctx, query.BaseFolder, include, ignore)
}

// SearchPatterns walks baseFolder once per include pattern, drops ignored and
// duplicate paths, enforces the result cap and reads every text file in order.
// Binary files are skipped silently; read failures are reported in Errors.
// Files is never nil on success, so an empty result encodes as an empty list.
func (fc *FileCollector) SearchPatterns(ctx context.Context, baseFolder string, include []string, ignore []string) (*models.SearchResult, error) {
	startTime := time.Now()

	base, err := filepath.Abs(baseFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", baseFolder, err)
	}

	info, err := os.Stat(base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("directory %s: %w", base, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", base, ErrNotADirectory)
	}

	if err := validatePatterns(include); err != nil {
		return nil, err
	}
	if err := validatePatterns(ignore); err != nil {
		return nil, err
	}

	paths, err := fc.enumerate(ctx, base, include, ignore)
	if err != nil {
		return nil, err
	}

	if len(paths) > fc.maxFiles {
		fc.logger.Info("Search exceeded file cap",
			zap.String("baseFolder", base),
			zap.Int("found", len(paths)),
			zap.Int("max", fc.maxFiles))
		return nil, &TooManyResultsError{Found: len(paths), Max: fc.maxFiles}
	}

	result := &models.SearchResult{Files: []models.CollectedFile{}}
	skipped := 0
	for _, path := range paths {
		if !fc.classifier.IsTextLike(path) {
			fc.logger.Debug("Skipping binary file", zap.String("path", path))
			skipped++
			continue
		}

		content, err := fc.reader.ReadText(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filepath.Base(path), err))
			continue
		}

		result.Files = append(result.Files, models.CollectedFile{Path: path, Content: content})
	}

	fc.logger.Info("Search completed",
		zap.String("baseFolder", base),
		zap.Int("matched", len(paths)),
		zap.Int("files", len(result.Files)),
		zap.Int("binarySkipped", skipped),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("elapsed", time.Since(startTime)))

	return result, nil
}

// enumerate runs one glob walk per pattern concurrently and merges the matches
// in pattern order, keeping the first occurrence of every path.
func (fc *FileCollector) enumerate(ctx context.Context, base string, include []string, ignore []string) ([]string, error) {
	fsys := os.DirFS(base)
	matches := make([][]string, len(include))

	g, gctx := errgroup.WithContext(ctx)
	for i, pattern := range include {
		g.Go(func() error {
			var found []string
			err := doublestar.GlobWalk(fsys, pattern, func(relPath string, d fs.DirEntry) error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if !fc.includeHidden && isHidden(relPath) {
					return nil
				}
				if matchesAny(ignore, relPath) {
					return nil
				}
				found = append(found, filepath.Join(base, filepath.FromSlash(relPath)))
				return nil
			}, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
			if err != nil {
				return fmt.Errorf("failed to match pattern %q: %w", pattern, err)
			}
			matches[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, found := range matches {
		for _, path := range found {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	fc.logger.Debug("Enumerated files",
		zap.String("baseFolder", base),
		zap.Strings("patterns", include),
		zap.Int("unique", len(paths)))

	return paths, nil
}
