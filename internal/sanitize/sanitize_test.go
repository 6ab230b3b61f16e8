package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		limit   int
		wantErr bool
	}{
		{"under limit", 9, 10, false},
		{"exact limit", 10, 10, false},
		{"over limit", 11, 10, true},
		{"default limit", DefaultMaxSize + 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Input(strings.Repeat("a", tt.size), tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInput_ControlChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"normal text", "I was flying", "I was flying"},
		{"blank stays blank", "   ", "   "},
		{"empty", "", ""},
		{"safe controls", "Line1\nLine2\tTabbed\r\n", "Line1\nLine2\tTabbed\r\n"},
		{"ansi escape", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"null byte", "Null\x00Byte", "NullByte"},
		{"bell", "Ding\x07", "Ding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Input(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput_InvalidUTF8(t *testing.T) {
	_, err := Input("bad \xff byte", 0)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
