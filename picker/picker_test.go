package picker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers each prompt with the next choice and records the options shown.
type scripted struct {
	choices []string
	shown   [][]string
}

func (s *scripted) selectOption(prompt string, options []string) (string, error) {
	s.shown = append(s.shown, options)
	if len(s.choices) == 0 {
		return "", errors.New("no more choices")
	}
	choice := s.choices[0]
	s.choices = s.choices[1:]
	return choice, nil
}

func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o644))
	return root
}

func TestSelectFile(t *testing.T) {
	root := newTree(t)
	script := &scripted{choices: []string{"src" + dirSuffix, "main.go"}}
	p := NewPickerWithSelect(script.selectOption)

	path, err := p.SelectFile(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "main.go"), path)

	assert.Equal(t, []string{optionCancel, optionParent, "src" + dirSuffix, "README.md"}, script.shown[0])
	assert.Equal(t, []string{optionCancel, optionParent, "lib" + dirSuffix, "main.go"}, script.shown[1])
}

func TestSelectFile_NavigatesUp(t *testing.T) {
	root := newTree(t)
	script := &scripted{choices: []string{optionParent, "README.md"}}
	p := NewPickerWithSelect(script.selectOption)

	path, err := p.SelectFile(filepath.Join(root, "src"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "README.md"), path)
}

func TestSelectFile_Cancel(t *testing.T) {
	root := newTree(t)
	p := NewPickerWithSelect((&scripted{choices: []string{optionCancel}}).selectOption)

	_, err := p.SelectFile(root)
	assert.ErrorIs(t, err, file_collector.ErrNoSelection)
	assert.EqualError(t, err, "No file selected")
}

func TestSelectFile_SelectError(t *testing.T) {
	root := newTree(t)
	p := NewPickerWithSelect((&scripted{}).selectOption)

	_, err := p.SelectFile(root)
	require.Error(t, err)
	assert.NotErrorIs(t, err, file_collector.ErrNoSelection)
}

func TestSelectDirectory(t *testing.T) {
	root := newTree(t)
	script := &scripted{choices: []string{"src" + dirSuffix, "lib" + dirSuffix, optionUseFolder}}
	p := NewPickerWithSelect(script.selectOption)

	dir, err := p.SelectDirectory(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "lib"), dir)

	// Files are never offered when choosing a folder
	assert.Equal(t, []string{optionUseFolder, optionCancel, optionParent, "src" + dirSuffix}, script.shown[0])
}

func TestSelectDirectory_Cancel(t *testing.T) {
	root := newTree(t)
	p := NewPickerWithSelect((&scripted{choices: []string{optionCancel}}).selectOption)

	_, err := p.SelectDirectory(root)
	assert.ErrorIs(t, err, file_collector.ErrNoSelection)
	assert.EqualError(t, err, "No directory selected")
}

func TestSelectDirectory_MissingStartFallsBackToCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	p := NewPickerWithSelect((&scripted{choices: []string{optionUseFolder}}).selectOption)
	dir, err := p.SelectDirectory(filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)
	assert.Equal(t, cwd, dir)
}
