package queue

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeTags turns caller input into a set: trimmed, case-folded,
// de-duplicated, sorted, blanks dropped.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	// a Caser keeps state, so each call gets its own
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = fold.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
