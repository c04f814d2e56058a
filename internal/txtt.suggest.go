package internal

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Suggestion limits
const (
	MaxSuggestions        = 3
	MinSuggestionDistance = 2
)

// SimilarIdentifiers returns up to limit candidates close to target, closest
// first. Ties keep candidate order. Comparison ignores case.
func SimilarIdentifiers(target string, candidates []string, limit int) []string {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	maxDistance := max(utf8.RuneCountInString(target)/2, MinSuggestionDistance)

	type scored struct {
		id       string
		distance int
	}
	var similar []scored
	lower := strings.ToLower(target)
	for _, c := range candidates {
		if c == target {
			continue
		}
		if d := levenshtein(lower, strings.ToLower(c)); d <= maxDistance {
			similar = append(similar, scored{id: c, distance: d})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].distance < similar[j].distance
	})

	out := make([]string, 0, min(limit, len(similar)))
	for i := 0; i < len(similar) && i < limit; i++ {
		out = append(out, similar[i].id)
	}
	return out
}

// levenshtein counts single-rune edits, keeping two rows of the matrix.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// FormatSuggestions renders suggestions as a message suffix, e.g.
// ". Did you mean 'name' or 'names'?". Empty input gives "".
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(". Did you mean ")
	for i, s := range suggestions {
		if i > 0 {
			if i == len(suggestions)-1 {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(", ")
			}
		}
		sb.WriteByte('\'')
		sb.WriteString(s)
		sb.WriteByte('\'')
	}
	sb.WriteByte('?')
	return sb.String()
}
