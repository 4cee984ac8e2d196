package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	collector, err := file_collector.NewFileCollector(file_collector.Options{}, nil)
	require.NoError(t, err)
	return NewSession(collector, nil)
}

func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSession_AddKeepsOrderAndDuplicates(t *testing.T) {
	s := newTestSession(t)

	a := models.CollectedFile{Path: "/x/a.txt", Content: "a"}
	b := models.CollectedFile{Path: "/x/b.txt", Content: "b"}

	s.Add(a)
	s.AddAll([]models.CollectedFile{b, a})

	assert.Equal(t, []models.CollectedFile{a, b, a}, s.Files())
	assert.Equal(t, 3, s.Len())
}

func TestSession_Remove(t *testing.T) {
	s := newTestSession(t)
	a := models.CollectedFile{Path: "/x/a.txt", Content: "a"}
	b := models.CollectedFile{Path: "/x/b.txt", Content: "b"}
	c := models.CollectedFile{Path: "/x/c.txt", Content: "c"}
	s.AddAll([]models.CollectedFile{a, b, c})

	removed, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, b, removed)
	assert.Equal(t, []models.CollectedFile{a, c}, s.Files())

	_, err = s.Remove(2)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = s.Remove(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, []models.CollectedFile{a, c}, s.Files())
}

func TestSession_FilesReturnsCopy(t *testing.T) {
	s := newTestSession(t)
	s.Add(models.CollectedFile{Path: "/x/a.txt", Content: "a"})

	files := s.Files()
	files[0].Content = "changed"

	assert.Equal(t, "a", s.Files()[0].Content)
}

func TestSession_ReloadAll(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "old a")
	b := writeFile(t, dir, "b.txt", "old b")
	c := writeFile(t, dir, "c.txt", "old c")

	s := newTestSession(t)
	s.AddAll([]models.CollectedFile{
		{Path: a, Content: "old a"},
		{Path: b, Content: "old b"},
		{Path: c, Content: "old c"},
	})

	writeFile(t, dir, "a.txt", "new a")
	require.NoError(t, os.Remove(b))

	err := s.ReloadAll()
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	var reloadErr *ReloadError
	require.True(t, errors.As(errs[0], &reloadErr))
	assert.Equal(t, b, reloadErr.Path)
	assert.Contains(t, errs[0].Error(), "Failed to reload "+b)

	assert.Equal(t, []models.CollectedFile{
		{Path: a, Content: "new a"},
		{Path: c, Content: "old c"},
	}, s.Files())
}

func TestSession_ReloadAllDropsBinaryReplacement(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "text")

	s := newTestSession(t)
	s.Add(models.CollectedFile{Path: a, Content: "text"})

	writeFile(t, dir, "a.txt", "now\x00binary")

	err := s.ReloadAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, file_collector.ErrNotText))
	assert.Equal(t, 0, s.Len())
}

func TestSession_ReloadAllSucceeds(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "same")

	s := newTestSession(t)
	s.Add(models.CollectedFile{Path: a, Content: "same"})
	s.Add(models.CollectedFile{Path: a, Content: "same"})

	assert.NoError(t, s.ReloadAll())
	assert.Equal(t, 2, s.Len())
}

func TestSession_ClearRequiresConfirmation(t *testing.T) {
	s := newTestSession(t)
	s.Add(models.CollectedFile{Path: "/x/a.txt", Content: "a"})

	cleared, err := s.Clear(func() (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, 1, s.Len())

	cleared, err = s.Clear(nil)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.False(t, cleared)

	boom := errors.New("stdin closed")
	_, err = s.Clear(func() (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Len())

	cleared, err = s.Clear(func() (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Content())
}

func TestSession_LastFolder(t *testing.T) {
	s := newTestSession(t)

	_, ok := s.LastFolder()
	assert.False(t, ok)

	s.SetLastFolder("/home/user/project")
	folder, ok := s.LastFolder()
	assert.True(t, ok)
	assert.Equal(t, "/home/user/project", folder)
}

func TestSession_Tokens(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, 0, s.Tokens())

	s.Add(models.CollectedFile{Path: "/a", Content: "abcd"})
	// "-- begin: /a\nabcd\n-- end: /a\n" is 29 characters.
	assert.Equal(t, 8, s.Tokens())
}
