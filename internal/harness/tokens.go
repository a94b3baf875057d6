package harness

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// EstimateTokens approximates the token count of text as one token per
// four bytes, with a minimum of 1 for non-empty text. It is an opaque
// telemetry unit, not a tokenizer.
func EstimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TokenFooter is the trailer appended to every tool response.
func TokenFooter(tokens int) string {
	return fmt.Sprintf("\n[Token Usage: %s]", humanize.Comma(int64(tokens)))
}
