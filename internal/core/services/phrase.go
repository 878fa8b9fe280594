package services

import (
	"strings"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// ParseQuery extracts every maximal substring enclosed by a pair of
// straight double quotes, in the order they appear, as a phrase.
// Each extracted region is replaced by a space in the residual
// string, which is then tokenized into tokens. An unterminated
// trailing quote is left as ordinary text.
func ParseQuery(query string) (phrases []string, tokens []string) {
	var residual strings.Builder
	runes := []rune(query)

	i := 0
	for i < len(runes) {
		if runes[i] != '"' {
			residual.WriteRune(runes[i])
			i++
			continue
		}

		j := i + 1
		for j < len(runes) && runes[j] != '"' {
			j++
		}
		if j >= len(runes) {
			// Unmatched quote: keep as ordinary text.
			residual.WriteRune(runes[i])
			i++
			continue
		}

		phrases = append(phrases, string(runes[i+1:j]))
		residual.WriteRune(' ')
		i = j + 1
	}

	tokens = Tokenize(residual.String())
	return phrases, tokens
}

// NormalizePhrase applies the same normalization as Tokenize but
// collapses separator runs to a single space and preserves them
// between words, trimming leading and trailing spaces. Phrase
// matching is exact on this normalized form.
func NormalizePhrase(phrase string) string {
	var b strings.Builder
	atSeparator := true // swallow leading separators

	for _, r := range phrase {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
			atSeparator = false
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			atSeparator = false
		default:
			if !atSeparator {
				b.WriteRune(' ')
				atSeparator = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// FindPhraseMatches returns the non-overlapping, leftmost-first
// occurrences of phrase within text, in the normalized-text
// coordinate system produced by NormalizePhrase. An empty phrase
// yields an empty sequence.
func FindPhraseMatches(text, phrase string) []domain.PhraseRange {
	normPhrase := NormalizePhrase(phrase)
	if normPhrase == "" {
		return nil
	}

	normText := NormalizePhrase(text)

	var ranges []domain.PhraseRange
	start := 0
	for {
		idx := strings.Index(normText[start:], normPhrase)
		if idx < 0 {
			break
		}
		matchStart := start + idx
		matchEnd := matchStart + len(normPhrase)
		ranges = append(ranges, domain.PhraseRange{Start: matchStart, End: matchEnd})
		start = matchEnd
	}

	return ranges
}

// ContainsAllPhrases reports whether text contains at least one
// occurrence of every phrase (AND semantics). An empty phrase list is
// vacuously true.
func ContainsAllPhrases(text string, phrases []string) bool {
	for _, p := range phrases {
		if len(FindPhraseMatches(text, p)) == 0 {
			return false
		}
	}
	return true
}
