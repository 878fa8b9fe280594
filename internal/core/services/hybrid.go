package services

import (
	"fmt"
	"math"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// HybridRanker fuses the TF-IDF lexical score with cosine semantic
// similarity over span embeddings.
type HybridRanker struct {
	index *LexicalIndex
	tfidf *TFIDFRanker
}

// NewHybridRanker builds a ranker that scores lexically through tfidf
// and semantically against index's span embeddings.
func NewHybridRanker(index *LexicalIndex, tfidf *TFIDFRanker) *HybridRanker {
	return &HybridRanker{index: index, tfidf: tfidf}
}

// Rank scores results against queryTokens and queryEmbedding, fusing
// the two signals per opts. Spans without a persisted embedding are
// skipped for the semantic component and reported as warnings rather
// than failing the whole query. Sorting is deferred to the caller.
func (r *HybridRanker) Rank(
	results []domain.SearchResult,
	queryTokens []string,
	queryEmbedding []float64,
	opts domain.HybridOptions,
) ([]domain.SearchResult, []domain.Warning, error) {
	if opts.WeightLexical < 0 || opts.WeightSemantic < 0 {
		return nil, nil, fmt.Errorf("hybrid weights must be non-negative: %w", domain.ErrInvalidArgument)
	}
	if opts.WeightLexical+opts.WeightSemantic > 1 {
		return nil, nil, fmt.Errorf("hybrid weights must not sum above 1: %w", domain.ErrInvalidArgument)
	}

	scored := r.tfidf.RankWithHits(results, queryTokens, DefaultPhraseBoost)

	lexical := make(map[string]float64, len(scored))
	semantic := make(map[string]float64, len(scored))
	var warnings []domain.Warning

	for _, res := range scored {
		lexical[res.SpanID] = res.Score

		span, ok := r.index.spansByID[res.SpanID]
		if !ok || !span.HasEmbedding() {
			warnings = append(warnings, NewWarning("missing_embedding", res.SpanID, "span has no embedding; semantic score skipped"))
			continue
		}

		sim, err := CosineSimilarity(span.Embedding, queryEmbedding)
		if err != nil {
			warnings = append(warnings, NewWarning("embedding_dimension_mismatch", res.SpanID, err.Error()))
			continue
		}
		semantic[res.SpanID] = sim
	}

	if opts.Normalize {
		lexical = minMaxNormalize(lexical)
		semantic = minMaxNormalize(semantic)
	}

	for i := range scored {
		id := scored[i].SpanID
		scored[i].Score = lexical[id]*opts.WeightLexical + semantic[id]*opts.WeightSemantic
	}

	return scored, warnings, nil
}

// minMaxNormalize rescales scores into [0, 1]; when every value is
// equal, all entries map to 1.0 rather than dividing by zero.
func minMaxNormalize(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range scores {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	normalized := make(map[string]float64, len(scores))
	for k, v := range scores {
		if max == min {
			normalized[k] = 1.0
			continue
		}
		normalized[k] = (v - min) / (max - min)
	}
	return normalized
}
