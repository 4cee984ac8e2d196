package file_collector

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meysamhadeli/promptcat/file_collector/models"
)

// MatchAllPattern selects every file under the root.
const MatchAllPattern = "**/*"

// DefaultExcludes are folder names that are never searched, whatever else is configured.
var DefaultExcludes = []string{"node_modules", ".git"}

// SplitCSV splits a comma separated list, trimming blanks and dropping empty entries.
func SplitCSV(csv string) []string {
	var tokens []string
	for _, token := range strings.Split(csv, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// NormalizeExtension returns ext with exactly one leading dot, so "js", ".js" and "*.js" agree.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, "*")
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

// NormalizeExtensions normalizes every token and drops the ones that end up empty.
func NormalizeExtensions(tokens []string) []string {
	var extensions []string
	for _, token := range tokens {
		if ext := NormalizeExtension(token); ext != "" {
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// IncludePatterns turns extensions into recursive globs. No extensions means every file.
func IncludePatterns(extensions []string) []string {
	if len(extensions) == 0 {
		return []string{MatchAllPattern}
	}
	patterns := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		patterns = append(patterns, "**/*"+NormalizeExtension(ext))
	}
	return patterns
}

// IgnorePatterns always excludes DefaultExcludes, then the configured extra
// folders, then every user supplied folder name.
func IgnorePatterns(extraExcludes []string, excludeFolders []string) []string {
	folders := make([]string, 0, len(DefaultExcludes)+len(extraExcludes)+len(excludeFolders))
	folders = append(folders, DefaultExcludes...)
	folders = append(folders, extraExcludes...)
	folders = append(folders, excludeFolders...)

	patterns := make([]string, 0, len(folders))
	for _, folder := range folders {
		folder = strings.Trim(strings.TrimSpace(folder), "/")
		if folder == "" {
			continue
		}
		patterns = append(patterns, "**/"+folder+"/**")
	}
	return patterns
}

// Expand turns the two comma separated inputs into include and ignore patterns.
func Expand(extensionsCsv string, excludeFoldersCsv string) ([]string, []string) {
	include := IncludePatterns(NormalizeExtensions(SplitCSV(extensionsCsv)))
	ignore := IgnorePatterns(nil, SplitCSV(excludeFoldersCsv))
	return include, ignore
}

// NewSearchQuery builds a query from raw user input.
func NewSearchQuery(baseFolder string, extensionsCsv string, excludeFoldersCsv string) models.SearchQuery {
	return models.SearchQuery{
		BaseFolder:     baseFolder,
		Extensions:     NormalizeExtensions(SplitCSV(extensionsCsv)),
		ExcludeFolders: SplitCSV(excludeFoldersCsv),
	}
}

// validatePatterns returns a doublestar.ErrBadPattern naming the first malformed pattern.
func validatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// matchesAny reports whether the slash separated relative path matches one of
// the patterns. Patterns are expected to have passed validatePatterns.
func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// isHidden reports whether any segment of the slash separated path starts with a dot.
func isHidden(relPath string) bool {
	for relPath != "" && relPath != "." {
		dir, base := path.Split(relPath)
		if strings.HasPrefix(base, ".") {
			return true
		}
		relPath = strings.TrimSuffix(dir, "/")
	}
	return false
}
