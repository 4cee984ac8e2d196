package contracts

import (
	"context"

	"github.com/meysamhadeli/promptcat/file_collector/models"
)

// ITextLoader classifies and reads a single file.
type ITextLoader interface {
	LoadTextFile(path string) (models.CollectedFile, error)
}

type IFileCollector interface {
	ITextLoader
	IsTextLike(path string) bool
	ReadText(path string) (string, error)
	Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)
	GetCacheStats() map[string]interface{}
	ClearCache()
}
