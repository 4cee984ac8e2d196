package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meysamhadeli/promptcat/constants/lipgloss"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"github.com/meysamhadeli/promptcat/session"
	"github.com/meysamhadeli/promptcat/utils"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

func newSpinner(w io.Writer) *pterm.SpinnerPrinter {
	return pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).
		WithRemoveWhenDone(true).
		WithWriter(w)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printSuccess(w io.Writer, message string) {
	pterm.Success.WithWriter(w).Println(message)
}

func printWarning(w io.Writer, message string) {
	pterm.Warning.WithWriter(w).Println(message)
}

func printError(w io.Writer, message string) {
	pterm.Error.WithWriter(w).Println(message)
}

func printInfo(w io.Writer, message string) {
	pterm.Info.WithWriter(w).Println(message)
}

// renderBundle writes the bundle of files to w. With highlight on and w a
// terminal, contents are colourised and markers dimmed; otherwise the exact
// bundle text is written.
func renderBundle(w io.Writer, files []models.CollectedFile, theme string, highlight bool) error {
	if !highlight || !isTerminal(w) {
		_, err := io.WriteString(w, session.Bundle(files))
		return err
	}
	return writeHighlighted(w, files, theme)
}

// writeHighlighted writes each block with a dimmed begin marker labelled with
// the detected language, colourised content and a dimmed end marker.
func writeHighlighted(w io.Writer, files []models.CollectedFile, theme string) error {
	for i, file := range files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		language := lipgloss.Info.Render("[" + utils.LanguageFor(file.Path) + "]")
		fmt.Fprintln(w, lipgloss.Muted.Render("-- begin: "+file.Path)+" "+language)
		if err := utils.HighlightContent(w, file.Path, file.Content, theme); err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.Muted.Render("-- end: "+file.Path))
	}
	return nil
}

// numberedList renders entries as " 1. entry" lines. indexes, when given,
// holds the zero-based position each entry has in the session.
func numberedList(entries []string, indexes []int) string {
	numbers := make([]int, len(entries))
	width := 1
	for i := range entries {
		numbers[i] = i + 1
		if indexes != nil {
			numbers[i] = indexes[i] + 1
		}
		width = max(width, len(fmt.Sprint(numbers[i])))
	}

	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%*d. %s", width+1, numbers[i], entry))
	}
	return strings.Join(lines, "\n")
}
