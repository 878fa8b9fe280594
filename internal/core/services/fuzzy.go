package services

import "sort"

// fuzzyAlphabet is the character set fuzzy expansion operates over;
// it matches the alphabet Tokenize ever produces.
const fuzzyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateOneEditNeighborhood yields every string at Levenshtein
// distance exactly 1 from token over [a-z0-9]: one character
// deleted, one character substituted (same-character substitutions
// skipped), or one character inserted at any position including both
// ends. The result may contain duplicates; callers intersecting
// against a vocabulary dedupe as part of that step.
func GenerateOneEditNeighborhood(token string) []string {
	n := len(token)
	var out []string

	// Deletions.
	for i := 0; i < n; i++ {
		out = append(out, token[:i]+token[i+1:])
	}

	// Substitutions.
	for i := 0; i < n; i++ {
		for _, c := range fuzzyAlphabet {
			if token[i] == byte(c) {
				continue
			}
			out = append(out, token[:i]+string(c)+token[i+1:])
		}
	}

	// Insertions, including both ends.
	for i := 0; i <= n; i++ {
		for _, c := range fuzzyAlphabet {
			out = append(out, token[:i]+string(c)+token[i:])
		}
	}

	return out
}

// FindFuzzyCandidates intersects token's one-edit neighborhood with
// vocabulary, deduplicates, sorts the survivors lexicographically for
// determinism, and returns at most maxCandidates of them.
func FindFuzzyCandidates(token string, vocabulary map[string]struct{}, maxCandidates int) []string {
	neighborhood := GenerateOneEditNeighborhood(token)

	seen := make(map[string]struct{})
	var candidates []string
	for _, cand := range neighborhood {
		if _, inVocab := vocabulary[cand]; !inVocab {
			continue
		}
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		candidates = append(candidates, cand)
	}

	sort.Strings(candidates)

	if maxCandidates > 0 && len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}
