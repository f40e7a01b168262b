// Package sanitize turns operator-supplied free text into plain text.
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	policy   *bluemonday.Policy
	maxRunes int
}

// New returns a sanitizer that strips all markup and truncates to maxRunes (0 means no limit).
func New(maxRunes int) *Sanitizer {
	return &Sanitizer{
		policy:   bluemonday.StrictPolicy(),
		maxRunes: maxRunes,
	}
}

// Text strips tags, decodes entities left behind and trims surrounding space.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	out := html.UnescapeString(s.policy.Sanitize(in))
	out = strings.TrimSpace(out)
	if s.maxRunes > 0 && utf8.RuneCountInString(out) > s.maxRunes {
		runes := []rune(out)
		out = strings.TrimSpace(string(runes[:s.maxRunes]))
	}
	return out
}
