package session

import (
	"errors"
	"fmt"

	"github.com/meysamhadeli/promptcat/file_collector/contracts"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"github.com/meysamhadeli/promptcat/token_management"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotConfirmed    = errors.New("not confirmed")
)

// ConfirmFunc asks the user to approve a destructive operation.
type ConfirmFunc func() (bool, error)

// ReloadError is reported for every file that could not be reloaded.
type ReloadError struct {
	Path string
	Err  error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("Failed to reload %s: %v", e.Path, e.Err)
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Session is the in-memory list of collected files plus the last folder the user
// visited. Insertion order is display order and duplicate paths are allowed.
// A Session is not safe for concurrent use; callers serialize access.
type Session struct {
	collected  []models.CollectedFile
	lastFolder string
	loader     contracts.ITextLoader
	logger     *zap.Logger
}

// NewSession creates an empty session that reloads files through loader.
func NewSession(loader contracts.ITextLoader, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{loader: loader, logger: logger}
}

func (s *Session) Add(file models.CollectedFile) {
	s.collected = append(s.collected, file)
	s.logger.Debug("Added file to session", zap.String("path", file.Path))
}

func (s *Session) AddAll(files []models.CollectedFile) {
	s.collected = append(s.collected, files...)
	s.logger.Debug("Added files to session", zap.Int("count", len(files)))
}

// Remove deletes the entry at index. An out of range index leaves the session untouched.
func (s *Session) Remove(index int) (models.CollectedFile, error) {
	if index < 0 || index >= len(s.collected) {
		return models.CollectedFile{}, fmt.Errorf("%w: %d (session has %d files)", ErrIndexOutOfRange, index, len(s.collected))
	}

	removed := s.collected[index]
	s.collected = append(s.collected[:index:index], s.collected[index+1:]...)
	s.logger.Debug("Removed file from session", zap.String("path", removed.Path), zap.Int("index", index))
	return removed, nil
}

// ReloadAll reads every entry again. The list is replaced by the entries that
// reloaded successfully; each failure is dropped and returned as a *ReloadError
// inside a multierr.
func (s *Session) ReloadAll() error {
	var errs error
	updated := make([]models.CollectedFile, 0, len(s.collected))

	for _, file := range s.collected {
		reloaded, err := s.loader.LoadTextFile(file.Path)
		if err != nil {
			s.logger.Warn("Failed to reload file", zap.String("path", file.Path), zap.Error(err))
			errs = multierr.Append(errs, &ReloadError{Path: file.Path, Err: err})
			continue
		}
		updated = append(updated, models.CollectedFile{Path: file.Path, Content: reloaded.Content})
	}

	s.collected = updated
	return errs
}

// Clear empties the session once confirm approves it. It reports whether the
// session was cleared.
func (s *Session) Clear(confirm ConfirmFunc) (bool, error) {
	if confirm == nil {
		return false, ErrNotConfirmed
	}

	ok, err := confirm()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	s.logger.Debug("Cleared session", zap.Int("count", len(s.collected)))
	s.collected = nil
	return true, nil
}

func (s *Session) SetLastFolder(path string) {
	s.lastFolder = path
}

// LastFolder returns the last visited folder and whether one was set.
func (s *Session) LastFolder() (string, bool) {
	return s.lastFolder, s.lastFolder != ""
}

// Files returns a copy of the collected files in display order.
func (s *Session) Files() []models.CollectedFile {
	return append([]models.CollectedFile(nil), s.collected...)
}

func (s *Session) Len() int {
	return len(s.collected)
}

// Content renders the session as a bundle.
func (s *Session) Content() string {
	return Bundle(s.collected)
}

// Tokens estimates the token count of the current bundle.
func (s *Session) Tokens() int {
	return token_management.EstimateTokens(s.Content())
}
