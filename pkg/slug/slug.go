// Package slug converts arbitrary text into filesystem-safe identifiers.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases the input, replaces every run of non-alphanumeric
// characters with a single hyphen and trims hyphens from both ends.
func Make(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = nonAlnum.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}
