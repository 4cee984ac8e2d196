package utils

import (
	"errors"
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubClipboard(t *testing.T, fn func(string) error) {
	t.Helper()
	original := clipboardWrite
	clipboardWrite = fn
	t.Cleanup(func() { clipboardWrite = original })
}

func TestCopyToClipboard(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility available")
	}

	var copied string
	stubClipboard(t, func(text string) error {
		copied = text
		return nil
	})

	require.NoError(t, CopyToClipboard("-- begin: /a\nx\n-- end: /a\n"))
	assert.Equal(t, "-- begin: /a\nx\n-- end: /a\n", copied)
}

func TestCopyToClipboard_Failure(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility available")
	}

	boom := errors.New("xsel exited with status 1")
	stubClipboard(t, func(string) error { return boom })

	err := CopyToClipboard("text")
	assert.ErrorIs(t, err, boom)
}
