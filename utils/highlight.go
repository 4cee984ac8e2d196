package utils

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightContent writes content to w with terminal colours chosen from the
// file name. Unknown file types and themes fall back to plain text and the
// default style.
func HighlightContent(w io.Writer, filename string, content string, theme string) error {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return err
	}
	return formatter.Format(w, style, iterator)
}

// LanguageFor returns the chroma language name for filename, or "plaintext".
func LanguageFor(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return "plaintext"
	}
	return strings.ToLower(lexer.Config().Name)
}
