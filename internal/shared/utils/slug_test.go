package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "My Album", "my-album"},
		{"punctuation collapsed", "My  Album!!", "my-album"},
		{"leading and trailing junk", "--Hello World--", "hello-world"},
		{"digits kept", "Top 40 Hits", "top-40-hits"},
		{"empty falls back", "", "album"},
		{"only symbols falls back", "!!!", "album"},
		{"already a slug", "my-album", "my-album"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlugIdempotent(t *testing.T) {
	inputs := []string{"My Album", "Top 40 Hits!", "  spaced  out  "}
	for _, in := range inputs {
		once := GenerateSlug(in)
		assert.Equal(t, once, GenerateSlug(once))
	}
}
