package domain

// RankMode selects how search results are scored and ordered.
type RankMode string

const (
	// RankNone returns results ordered by ascending span order, with
	// score left at 0.
	RankNone RankMode = "none"

	// RankTFIDF scores results with the TF-IDF ranker.
	RankTFIDF RankMode = "tfidf"

	// RankHybrid scores results by fusing TF-IDF and semantic cosine
	// similarity.
	RankHybrid RankMode = "hybrid"
)

// FuzzyOptions configures edit-distance-1 query expansion.
type FuzzyOptions struct {
	// Enabled turns fuzzy expansion on. The zero value is disabled.
	Enabled bool

	// MaxEdits is the maximum edit distance to expand by. Only 1 is
	// supported; any other value disables fuzzy matching for the
	// token it would apply to.
	MaxEdits int

	// MinTokenLen is the minimum query-token length eligible for
	// fuzzy expansion. Default 4.
	MinTokenLen int

	// DFThreshold bounds eligibility for fuzzy expansion: a token is
	// eligible only when its document frequency is below it. Default 5.
	DFThreshold int

	// MaxCandidatesPerToken bounds how many fuzzy candidates are
	// unioned into a token's effective posting set. Default 50.
	MaxCandidatesPerToken int
}

// DefaultFuzzyOptions returns the default fuzzy thresholds with fuzzy
// matching enabled.
func DefaultFuzzyOptions() FuzzyOptions {
	return FuzzyOptions{
		Enabled:               true,
		MaxEdits:              1,
		MinTokenLen:           4,
		DFThreshold:           5,
		MaxCandidatesPerToken: 50,
	}
}

// HybridOptions configures the lexical/semantic score fusion.
type HybridOptions struct {
	WeightLexical  float64
	WeightSemantic float64
	Normalize      bool
}

// DefaultHybridOptions returns the default fusion weights.
func DefaultHybridOptions() HybridOptions {
	return HybridOptions{WeightLexical: 0.7, WeightSemantic: 0.3, Normalize: true}
}

// SearchOptions configures Reader.Search.
type SearchOptions struct {
	Limit  int
	Rank   RankMode
	Fuzzy  *FuzzyOptions
	Hybrid *HybridOptions
}

// PhraseRange is a half-open [Start, End) offset pair in the
// normalized-text coordinate system of the span it matched.
type PhraseRange struct {
	Start int
	End   int
}

// TokenHit records whether a single query token matched a span
// exactly or only via fuzzy expansion.
type TokenHit struct {
	Token string
	Fuzzy bool
}

// PhraseHit records the ranges at which a phrase matched within a
// span's normalized text.
type PhraseHit struct {
	Phrase string
	Ranges []PhraseRange
}

// HitAnnotation carries the per-token and per-phrase match detail
// behind a SearchResult, used by the rankers (phrase boost) and by
// the prompt assembler (span offsets for citations).
type HitAnnotation struct {
	Tokens  []TokenHit
	Phrases []PhraseHit
}

// DistinctPhraseCount returns the number of distinct phrases that
// matched at least once.
func (h HitAnnotation) DistinctPhraseCount() int {
	count := 0
	for _, p := range h.Phrases {
		if len(p.Ranges) > 0 {
			count++
		}
	}
	return count
}

// SearchResult is one span hit from Reader.Search, with its order
// for stable tie-breaking and its annotation for ranking/citation.
type SearchResult struct {
	SpanID     string
	Order      int
	Score      float64
	Annotation HitAnnotation
}
