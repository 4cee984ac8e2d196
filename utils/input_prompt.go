package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/promptcat/constants/lipgloss"
)

// ErrInputClosed is returned once the input stream reaches EOF.
var ErrInputClosed = errors.New("input closed")

// InputPromptWithContext prompts the user with context cancellation support
func InputPromptWithContext(ctx context.Context, out io.Writer, reader *bufio.Reader) (string, error) {
	type lineResult struct {
		line string
		err  error
	}
	resultChan := make(chan lineResult, 1)

	go func() {
		fmt.Fprint(out, lipgloss.BlueSky.Render("> "))
		line, err := readLine(reader)
		resultChan <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out) // newline for clean exit
		return "", ctx.Err()
	case result := <-resultChan:
		return result.line, result.err
	}
}

// ConfirmPrompt asks a yes/no question. Anything but "y" or "yes" is a no.
func ConfirmPrompt(out io.Writer, reader *bufio.Reader, message string) (bool, error) {
	fmt.Fprint(out, lipgloss.Yellow.Render(message+" (y/N): "))

	answer, err := readLine(reader)
	if errors.Is(err, ErrInputClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	userInput, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// A final line without a newline still counts
			if userInput != "" {
				return strings.TrimSpace(userInput), nil
			}
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(userInput), nil
}
