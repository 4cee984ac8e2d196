package token_management

import (
	"unicode/utf16"

	"github.com/meysamhadeli/promptcat/token_management/contracts"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CharsPerToken is the rough ratio used for English text.
const CharsPerToken = 4

// TokenManager implementation
type tokenManager struct {
	currentTokens int
	printer       *message.Printer
}

// NewTokenManager creates a new token manager
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{
		printer: message.NewPrinter(language.English),
	}
}

// EstimateTokens returns ceil(length/4) where length counts UTF-16 code units,
// which equals the byte length for ASCII text.
func EstimateTokens(text string) int {
	length := 0
	for _, r := range text {
		if n := utf16.RuneLen(r); n > 0 {
			length += n
		} else {
			length++
		}
	}
	return (length + CharsPerToken - 1) / CharsPerToken
}

func (tm *tokenManager) EstimateTokens(text string) int {
	return EstimateTokens(text)
}

// UpdateTokens estimates text and remembers it as the session's current count.
func (tm *tokenManager) UpdateTokens(text string) int {
	tm.currentTokens = EstimateTokens(text)
	return tm.currentTokens
}

func (tm *tokenManager) GetCurrentTokenCount() int {
	return tm.currentTokens
}

// FormatTokens renders count the way the status line shows it, e.g. "Approx. tokens: 12,345".
func (tm *tokenManager) FormatTokens(count int) string {
	return tm.printer.Sprintf("Approx. tokens: %d", count)
}

func (tm *tokenManager) ClearToken() {
	tm.currentTokens = 0
}
