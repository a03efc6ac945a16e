package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "  \n\t\n  ", ""},
		{"line endings", "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"inline spaces", "Go,    Rust\t\tand  C++", "Go, Rust and C++"},
		{"non-breaking space", "Spring\u00a0Boot", "Spring Boot"},
		{"trim lines", "  Python  \n   Django", "Python\nDjango"},
		{"blank runs", "Experience\n\n\n\n\nEducation", "Experience\n\nEducation"},
		{"single blank kept", "Skills\n\nProjects", "Skills\n\nProjects"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Jane Doe\r\n\r\n\r\n  Go   developer  "
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}
