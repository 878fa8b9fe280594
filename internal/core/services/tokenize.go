package services

import "strings"

// Tokenize normalizes text into an ordered sequence of lower-case
// alphanumeric tokens. Every maximal run of characters outside
// [a-z0-9] (after case-folding) is treated as a separator; empty
// tokens are dropped. The result preserves document order.
//
// Tokenize has no locale dependence beyond ASCII case-folding:
// non-ASCII letters are treated as separators, both at build time and
// at query time, so the limitation is consistent across the corpus.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// TokenSet returns the distinct tokens of text as a set, for vocabulary
// membership and phrase/AND-matching checks.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
