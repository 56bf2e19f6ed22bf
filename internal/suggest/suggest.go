// Package suggest provides fuzzy matching for "did you mean" hints on
// unknown note titles and folders, using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"
)

// levenshtein calculates the edit distance between two strings in runes
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// Closest returns up to three candidates similar to unknown, best first.
// Matching ignores case; a candidate containing unknown always qualifies.
func Closest(unknown string, candidates []string) []string {
	needle := []rune(strings.ToLower(strings.TrimSpace(unknown)))
	if len(needle) == 0 {
		return nil
	}

	type scored struct {
		value string
		score int
	}
	var matches []scored
	seen := make(map[string]bool)

	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		lower := strings.ToLower(c)

		dist := levenshtein(needle, []rune(lower))
		// Only suggest if reasonably close (within 3 edits or 50% of length)
		maxDist := max(3, len(needle)/2)
		if strings.Contains(lower, string(needle)) {
			dist = min(dist, maxDist)
		}
		if dist <= maxDist {
			matches = append(matches, scored{c, dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score < matches[j].score })

	var result []string
	for i := 0; i < len(matches) && i < 3; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// Hint formats suggestions as ` (did you mean "a" or "b"?)`, or "" when
// there are none.
func Hint(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = `"` + s + `"`
	}
	return " (did you mean " + strings.Join(quoted, " or ") + "?)"
}
