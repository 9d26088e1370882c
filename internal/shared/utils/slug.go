package utils

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug lowercases the input, collapses every run of
// non-alphanumeric characters into a single hyphen and trims the ends.
// An input with no usable characters yields "album".
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)
	hyphenated := nonAlnum.ReplaceAllString(lower, "-")
	trimmed := strings.Trim(hyphenated, "-")
	if trimmed == "" {
		return "album"
	}
	return trimmed
}
