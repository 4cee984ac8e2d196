package models

import "time"

// CollectedFile holds the absolute path and text content of a file added to a session.
type CollectedFile struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

// SearchQuery describes one recursive directory search. Extensions keep their
// leading dot; ExtraIgnore holds glob patterns added on top of the folder exclusions.
type SearchQuery struct {
	BaseFolder     string
	Extensions     []string
	ExcludeFolders []string
	ExtraIgnore    []string
}

// SearchResult is the outcome of a successful search. Errors is nil when every
// text file was read.
type SearchResult struct {
	Files  []CollectedFile `json:"files" yaml:"files"`
	Errors []string        `json:"errors" yaml:"errors"`
}

// NoMatches reports the valid empty outcome: nothing matched and nothing failed.
func (r *SearchResult) NoMatches() bool {
	return r != nil && len(r.Files) == 0 && len(r.Errors) == 0
}

// FileSnapshot represents the state of a file at the time its content was cached
type FileSnapshot struct {
	Path    string
	ModTime time.Time
	Size    int64
}
