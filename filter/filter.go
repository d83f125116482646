// Package filter selects threads by title and fixes their ordering.
package filter

import (
	"sort"
	"strings"

	"ed-digest/models"
)

// Mode values for the title predicate. Both match case-insensitively;
// substring matches anywhere in the title, prefix only at its start.
const (
	ModeSubstring = "substring"
	ModePrefix    = "prefix"
)

// Predicate is a configured title match.
type Predicate struct {
	Mode    string
	Pattern string
}

// Match reports whether the title satisfies the predicate.
func (p Predicate) Match(title string) bool {
	t := strings.ToLower(title)
	pat := strings.ToLower(p.Pattern)
	if p.Mode == ModePrefix {
		return strings.HasPrefix(t, pat)
	}
	return strings.Contains(t, pat)
}

// Apply returns the threads whose title matches, preserving input order.
// An empty result is valid and produces an empty site downstream.
func Apply(threads []models.Thread, p Predicate) []models.Thread {
	matched := make([]models.Thread, 0, len(threads))
	for _, t := range threads {
		if p.Match(t.Title) {
			matched = append(matched, t)
		}
	}
	return matched
}

// SortNewestFirst orders posts by creation time, newest first. The sort is
// stable so fetch order breaks ties.
func SortNewestFirst(posts []models.ParsedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
