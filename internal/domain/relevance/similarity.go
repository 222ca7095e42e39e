package relevance

import "strings"

// Similarity computes a normalized lexical similarity between text and query
// in [0, 1]. A case-folded substring match scores 1.0 outright; anything else
// falls back to Levenshtein edit distance normalized by the longer length.
//
// Both strings empty is defined as 1.0. An empty query against non-empty text
// never takes the substring shortcut and scores 0 through the distance
// formula. Comparison is rune-based so Arabic and other non-Latin text is
// measured by characters, not bytes.
func Similarity(text, query string) float64 {
	t := strings.ToLower(text)
	q := strings.ToLower(query)

	if t == q {
		return 1.0
	}
	if q != "" && strings.Contains(t, q) {
		return 1.0
	}

	tr := []rune(t)
	qr := []rune(q)
	longest := len(tr)
	if len(qr) > longest {
		longest = len(qr)
	}

	dist := levenshtein(qr, tr)
	sim := 1.0 - float64(dist)/float64(longest)
	if sim < 0 {
		return 0
	}
	return sim
}

// levenshtein computes the edit distance with unit costs for insertion,
// deletion and substitution. Two-row variant of the classic
// (len(a)+1) x (len(b)+1) table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
