// Package sanitize turns user-supplied strings into plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding are peeled off.
const maxPasses = 4

// Text strips every tag and returns trimmed plain text with entities decoded.
// Decoding can expose markup that was entity-encoded, so strip and decode
// repeat until the string is stable. Input that never settles keeps the
// policy's escaped form.
func Text(s string) string {
	for range maxPasses {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(policy.Sanitize(s))
}
