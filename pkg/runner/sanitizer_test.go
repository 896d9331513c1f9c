package runner

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := SanitizeInput(input)
			if tt.wantErr {
				if !errors.Is(err, ErrInputTooLarge) {
					t.Errorf("SanitizeInput() expected ErrInputTooLarge for size %d, got %v", tt.inputSize, err)
				}
			} else if err != nil {
				t.Errorf("SanitizeInput() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	if _, err := SanitizeInput("goto 12"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := SanitizeInput("jump chapter-one"); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Clean", "next", "next"},
		{"ANSI Colour", "\x1b[31mnext\x1b[0m", "next"},
		{"Null And Bell", "go\x00to\a 2", "goto 2"},
		{"Tab Separates", "goto\t2", "goto 2"},
		{"Collapses Spaces", "  jump   Intro  \r\n", "jump Intro"},
		{"Cursor Keys Inside Text", "go\x1b[Dto 2", "goto 2"},
		{"Blank", " \n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeInput_KeySequences(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"\x1b[C\n", "next"},
		{"\x1bOC", "next"},
		{"\x1b[D\r\n", "previous"},
		{"\x1b[H", "reset"},
		{"\x1b[6~", "next_slide"},
		{"\x1b[5~", "prev_slide"},
		{"\t\n", "next_topic"},
		{"\x1b[Z", "prev_topic"},
	}

	for _, tt := range tests {
		got, err := SanitizeInput(tt.input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	if _, err := SanitizeInput("next\xff"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}
