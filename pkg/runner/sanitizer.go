package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/lectern/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "LECTERN_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// escapeKeys maps the sequences a terminal sends for special keys to the key
// names of domain.KeyBindings. A line holding only one of them (an arrow key
// followed by Enter) is the same input as pressing that key in the presenter.
var escapeKeys = map[string]string{
	"\x1b[A":  "up",
	"\x1b[B":  "down",
	"\x1b[C":  "right",
	"\x1b[D":  "left",
	"\x1bOA":  "up",
	"\x1bOB":  "down",
	"\x1bOC":  "right",
	"\x1bOD":  "left",
	"\x1b[H":  "home",
	"\x1b[1~": "home",
	"\x1b[5~": "pgup",
	"\x1b[6~": "pgdown",
	"\x1b[Z":  "shift+tab",
	"\t":      "tab",
}

// SanitizeInput turns a raw input line into a canonical command line, with the
// size limit taken from the environment.
func SanitizeInput(input string) (string, error) {
	return sanitize(input, maxInputSizeFromEnv())
}

// sanitize enforces the size limit and UTF-8 validity, translates lone key
// sequences into their bound command, drops ANSI escape sequences and control
// characters, and collapses whitespace to single spaces.
func sanitize(input string, limit int) (string, error) {
	if len(input) > limit {
		// Reject rather than truncate: a truncated "goto 12" is a different command.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	line := strings.TrimRight(input, "\r\n")
	if key, ok := escapeKeys[line]; ok {
		if cmd, ok := domain.LookupKey(key); ok {
			return cmd.String(), nil
		}
	}

	return strings.Join(strings.Fields(stripEscapes(line)), " "), nil
}

// stripEscapes removes CSI sequences (ESC [ params final) and every control
// character other than whitespace.
func stripEscapes(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\x1b' && i+1 < len(s) && s[i+1] == '[':
			i = skipCSI(s, i+2)
			continue
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case !unicode.IsControl(r):
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

// skipCSI returns the index just past the final byte of a CSI sequence whose
// parameters start at i.
func skipCSI(s string, i int) int {
	for i < len(s) {
		c := s[i]
		i++
		if c >= 0x40 && c <= 0x7e {
			break
		}
	}
	return i
}

func maxInputSizeFromEnv() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
