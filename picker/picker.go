// Package picker implements terminal file and folder choosers on top of pterm's
// interactive select.
package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/meysamhadeli/promptcat/picker/contracts"
	"github.com/pterm/pterm"
)

const (
	optionCancel    = "✖ Cancel"
	optionParent    = "⬆ .."
	optionUseFolder = "✔ Use this folder"
	dirSuffix       = string(filepath.Separator)
	maxHeight       = 15
)

// cancelledError reports a dismissed picker and matches file_collector.ErrNoSelection.
type cancelledError string

func (e cancelledError) Error() string { return string(e) }

func (e cancelledError) Is(target error) bool { return target == file_collector.ErrNoSelection }

const (
	ErrNoFileSelected      = cancelledError("No file selected")
	ErrNoDirectorySelected = cancelledError("No directory selected")
)

// SelectFunc shows options under a prompt and returns the chosen one.
type SelectFunc func(prompt string, options []string) (string, error)

type Picker struct {
	selectOption SelectFunc
}

// NewPicker returns a picker backed by pterm's interactive select.
func NewPicker() contracts.IPicker {
	return &Picker{selectOption: ptermSelect}
}

// NewPickerWithSelect returns a picker that asks selectFn for every choice.
func NewPickerWithSelect(selectFn SelectFunc) contracts.IPicker {
	return &Picker{selectOption: selectFn}
}

func ptermSelect(prompt string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithMaxHeight(maxHeight).
		WithDefaultText(prompt).
		Show()
}

// SelectFile walks the folder tree from startDir until the user picks a file.
func (p *Picker) SelectFile(startDir string) (string, error) {
	dir, err := resolveStart(startDir)
	if err != nil {
		return "", err
	}

	for {
		dirs, files, err := listDir(dir)
		if err != nil {
			return "", err
		}

		options := []string{optionCancel}
		if parent := filepath.Dir(dir); parent != dir {
			options = append(options, optionParent)
		}
		for _, name := range dirs {
			options = append(options, name+dirSuffix)
		}
		options = append(options, files...)

		choice, err := p.selectOption(fmt.Sprintf("Select a file in %s", dir), options)
		if err != nil {
			return "", fmt.Errorf("file selection failed: %w", err)
		}

		switch {
		case choice == "" || choice == optionCancel:
			return "", ErrNoFileSelected
		case choice == optionParent:
			dir = filepath.Dir(dir)
		case strings.HasSuffix(choice, dirSuffix):
			dir = filepath.Join(dir, strings.TrimSuffix(choice, dirSuffix))
		default:
			return filepath.Join(dir, choice), nil
		}
	}
}

// SelectDirectory walks the folder tree from startDir until the user accepts
// the folder currently shown.
func (p *Picker) SelectDirectory(startDir string) (string, error) {
	dir, err := resolveStart(startDir)
	if err != nil {
		return "", err
	}

	for {
		dirs, _, err := listDir(dir)
		if err != nil {
			return "", err
		}

		options := []string{optionUseFolder, optionCancel}
		if parent := filepath.Dir(dir); parent != dir {
			options = append(options, optionParent)
		}
		for _, name := range dirs {
			options = append(options, name+dirSuffix)
		}

		choice, err := p.selectOption(fmt.Sprintf("Select a folder (current: %s)", dir), options)
		if err != nil {
			return "", fmt.Errorf("directory selection failed: %w", err)
		}

		switch choice {
		case optionUseFolder:
			return dir, nil
		case "", optionCancel:
			return "", ErrNoDirectorySelected
		case optionParent:
			dir = filepath.Dir(dir)
		default:
			dir = filepath.Join(dir, strings.TrimSuffix(choice, dirSuffix))
		}
	}
}

// resolveStart falls back to the working directory when startDir is empty or gone.
func resolveStart(startDir string) (string, error) {
	if startDir != "" {
		if info, err := os.Stat(startDir); err == nil && info.IsDir() {
			return filepath.Abs(startDir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return cwd, nil
}

// listDir returns the sub folders and files of dir, each sorted by name.
func listDir(dir string) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("directory %s: %w", dir, file_collector.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var dirs, files []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
			continue
		}
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)
	return dirs, files, nil
}
