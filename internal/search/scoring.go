package search

import (
	"sort"
	"strings"
)

const (
	// Scoring weights for history suggestion ranking
	scorePrefixMatch    = 75.0
	scoreSubstringMatch = 50.0
)

// rankHistory returns the history entries matching the query, best match
// first. Prefix matches beat substring matches; the stable sort preserves
// recency order (the input is most-recent-first) within a score band.
func rankHistory(entries []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	type scored struct {
		entry string
		score float64
	}
	matches := make([]scored, 0, len(entries))
	for _, entry := range entries {
		lower := strings.ToLower(entry)
		switch {
		case strings.HasPrefix(lower, query):
			matches = append(matches, scored{entry, scorePrefixMatch})
		case strings.Contains(lower, query):
			matches = append(matches, scored{entry, scoreSubstringMatch})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.entry
	}
	return out
}
