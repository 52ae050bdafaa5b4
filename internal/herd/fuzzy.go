package herd

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Matches reports whether query approximately matches candidate. Both sides
// are folded (lowercased, diacritics stripped) first; a folded substring hit
// always matches, otherwise the query must reach the similarity threshold
// against the candidate or one of its words. Pure function, no state.
func Matches(query, candidate string, threshold float64) bool {
	q := Fold(query)
	c := Fold(candidate)
	if q == "" {
		return true
	}
	if strings.Contains(c, q) {
		return true
	}
	if Similarity(q, c) >= threshold {
		return true
	}
	for _, word := range strings.Fields(c) {
		if Similarity(q, word) >= threshold {
			return true
		}
	}
	return false
}

// Similarity is 1 - editDistance/maxLen, in [0, 1]. Identical strings score 1,
// fully different strings score 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// Fold lowercases s and strips diacritics, so "Ordeño" and "ordeno" compare
// equal. Herd names and zone descriptions are Spanish and accent-heavy.
func Fold(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
