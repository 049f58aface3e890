// Package normalize canonicalizes free text for keyword matching.
package normalize

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// String lowercases s, strips every character outside [a-z0-9 ] and trims
// the result. The transform is idempotent.
func String(s string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(s), ""))
}
