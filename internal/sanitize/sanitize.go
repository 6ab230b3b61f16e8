// Package sanitize cleans dream text arriving over remote surfaces (HTTP, MCP)
// before it reaches the shared input.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxSize bounds a dream in bytes.
const DefaultMaxSize = 16 << 10

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Input enforces the size limit (limit <= 0 uses DefaultMaxSize), validates
// UTF-8 and strips control characters other than newline, tab and carriage
// return. Empty or blank text is returned unchanged.
func Input(text string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if len(text) > limit {
		// Rejected, never truncated.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(text), limit)
	}

	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(text, unsafeControl) < 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
