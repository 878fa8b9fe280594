package services

import (
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// concurrentBuildThreshold is the span count at or above which index
// construction fans out across a worker pool instead of running
// sequentially on the calling goroutine.
const concurrentBuildThreshold = 256

// LexicalIndex is the inverted token->span-id posting map. It is
// built once, on first use, from the Reader's full span list and never
// mutated afterward.
type LexicalIndex struct {
	postings   map[string]map[string]struct{}
	vocabulary map[string]struct{}
	spansByID  map[string]domain.Span
}

// NewLexicalIndex builds the posting map and vocabulary from spans,
// fanning construction out across a bounded worker pool when the
// corpus is large enough to benefit from it.
func NewLexicalIndex(spans []domain.Span) *LexicalIndex {
	spansByID := make(map[string]domain.Span, len(spans))
	for _, s := range spans {
		spansByID[s.ID] = s
	}

	var postings map[string]map[string]struct{}
	if len(spans) >= concurrentBuildThreshold {
		postings = buildPostingsConcurrent(spans)
	} else {
		postings = buildPostingsSequential(spans)
	}

	vocabulary := make(map[string]struct{}, len(postings))
	for token := range postings {
		vocabulary[token] = struct{}{}
	}

	return &LexicalIndex{postings: postings, vocabulary: vocabulary, spansByID: spansByID}
}

func buildPostingsSequential(spans []domain.Span) map[string]map[string]struct{} {
	postings := make(map[string]map[string]struct{})
	for _, s := range spans {
		for _, token := range Tokenize(s.Text) {
			set, ok := postings[token]
			if !ok {
				set = make(map[string]struct{})
				postings[token] = set
			}
			set[s.ID] = struct{}{}
		}
	}
	return postings
}

// buildPostingsConcurrent is a pure order-independent reduce: every
// worker tokenizes its own slice of spans into a private posting map,
// and the maps are merged once all workers finish. Goroutine
// scheduling cannot influence the resulting postings.
func buildPostingsConcurrent(spans []domain.Span) map[string]map[string]struct{} {
	workerCount := runtime.GOMAXPROCS(0)
	if workerCount < 1 {
		workerCount = 1
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return buildPostingsSequential(spans)
	}
	defer pool.Release()

	chunks := partitionSpans(spans, workerCount)
	partials := make([]map[string]map[string]struct{}, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		i, chunk := i, chunk
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			partials[i] = buildPostingsSequential(chunk)
		})
		if submitErr != nil {
			partials[i] = buildPostingsSequential(chunk)
			wg.Done()
		}
	}
	wg.Wait()

	merged := make(map[string]map[string]struct{})
	for _, partial := range partials {
		for token, ids := range partial {
			set, ok := merged[token]
			if !ok {
				set = make(map[string]struct{}, len(ids))
				merged[token] = set
			}
			for id := range ids {
				set[id] = struct{}{}
			}
		}
	}
	return merged
}

func partitionSpans(spans []domain.Span, parts int) [][]domain.Span {
	if parts < 1 {
		parts = 1
	}
	chunkSize := (len(spans) + parts - 1) / parts
	if chunkSize < 1 {
		chunkSize = 1
	}

	var chunks [][]domain.Span
	for start := 0; start < len(spans); start += chunkSize {
		end := start + chunkSize
		if end > len(spans) {
			end = len(spans)
		}
		chunks = append(chunks, spans[start:end])
	}
	return chunks
}

// DocumentFrequency returns the number of spans whose token set
// contains token, or 0 if the token never occurs.
func (idx *LexicalIndex) DocumentFrequency(token string) int {
	return len(idx.postings[token])
}

// TotalDocuments returns the span count the index was built from.
func (idx *LexicalIndex) TotalDocuments() int {
	return len(idx.spansByID)
}

// Search tokenizes query and returns up to limit span ids whose token
// sets contain every query token (AND). Result order is unspecified;
// callers re-order. A nil limit means unbounded.
func (idx *LexicalIndex) Search(query string, limit *int) []string {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	candidates := idx.intersectExact(tokens)
	result := make([]string, 0, len(candidates))
	for id := range candidates {
		result = append(result, id)
	}
	sort.Strings(result)

	if limit != nil && len(result) > *limit {
		result = result[:*limit]
	}
	return result
}

func (idx *LexicalIndex) intersectExact(tokens []string) map[string]struct{} {
	var result map[string]struct{}
	for i, t := range tokens {
		posting := idx.postings[t]
		if i == 0 {
			result = copySet(posting)
			continue
		}
		result = intersectSets(result, posting)
		if len(result) == 0 {
			return result
		}
	}
	return result
}

// tokenMatch carries the exact and fuzzy-expanded postings for one
// query token, used to build both the AND intersection and the
// per-token hit annotation.
type tokenMatch struct {
	token        string
	exactPosting map[string]struct{}
	fuzzyPosting map[string]struct{}
}

func (idx *LexicalIndex) buildTokenMatches(tokens []string, fuzzy *domain.FuzzyOptions) []tokenMatch {
	matches := make([]tokenMatch, 0, len(tokens))
	for _, t := range tokens {
		m := tokenMatch{token: t, exactPosting: idx.postings[t]}

		if fuzzy != nil && fuzzy.Enabled && fuzzy.MaxEdits == 1 &&
			len(t) >= fuzzy.MinTokenLen && idx.DocumentFrequency(t) < fuzzy.DFThreshold {
			candidates := FindFuzzyCandidates(t, idx.vocabulary, fuzzy.MaxCandidatesPerToken)
			union := make(map[string]struct{})
			for _, cand := range candidates {
				for id := range idx.postings[cand] {
					union[id] = struct{}{}
				}
			}
			m.fuzzyPosting = union
		}

		matches = append(matches, m)
	}
	return matches
}

func (m tokenMatch) effectivePosting() map[string]struct{} {
	if len(m.fuzzyPosting) == 0 {
		return m.exactPosting
	}
	union := copySet(m.exactPosting)
	for id := range m.fuzzyPosting {
		union[id] = struct{}{}
	}
	return union
}

// SearchWithHits parses query into phrases and tokens, intersects
// their effective (exact ∪ eligible-fuzzy) postings, filters survivors
// by phrase containment, and emits an annotated SearchResult per
// surviving span ordered by document order. limit is respected at
// emission time only; ranking callers pass a nil limit and re-apply
// their own bound after scoring.
func (idx *LexicalIndex) SearchWithHits(query string, limit *int, fuzzy *domain.FuzzyOptions) []domain.SearchResult {
	phrases, tokens := ParseQuery(query)
	matches := idx.buildTokenMatches(tokens, fuzzy)

	var candidates map[string]struct{}
	switch {
	case len(matches) > 0:
		for i, m := range matches {
			posting := m.effectivePosting()
			if i == 0 {
				candidates = copySet(posting)
				continue
			}
			candidates = intersectSets(candidates, posting)
			if len(candidates) == 0 {
				break
			}
		}
	case len(phrases) > 0:
		firstWordTokens := Tokenize(phrases[0])
		if len(firstWordTokens) > 0 {
			candidates = copySet(idx.postings[firstWordTokens[0]])
		}
	default:
		return nil
	}

	results := make([]domain.SearchResult, 0, len(candidates))
	for id := range candidates {
		span, ok := idx.spansByID[id]
		if !ok {
			continue
		}
		if !ContainsAllPhrases(span.Text, phrases) {
			continue
		}
		results = append(results, domain.SearchResult{
			SpanID:     id,
			Order:      span.Order,
			Score:      0,
			Annotation: idx.annotate(span, matches, phrases),
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Order < results[j].Order })

	if limit != nil && len(results) > *limit {
		results = results[:*limit]
	}
	return results
}

func (idx *LexicalIndex) annotate(span domain.Span, matches []tokenMatch, phrases []string) domain.HitAnnotation {
	var annotation domain.HitAnnotation

	for _, m := range matches {
		_, exact := m.exactPosting[span.ID]
		if exact {
			annotation.Tokens = append(annotation.Tokens, domain.TokenHit{Token: m.token, Fuzzy: false})
			continue
		}
		if _, fuzzy := m.fuzzyPosting[span.ID]; fuzzy {
			annotation.Tokens = append(annotation.Tokens, domain.TokenHit{Token: m.token, Fuzzy: true})
		}
	}

	for _, phrase := range phrases {
		ranges := FindPhraseMatches(span.Text, phrase)
		annotation.Phrases = append(annotation.Phrases, domain.PhraseHit{Phrase: phrase, Ranges: ranges})
	}

	return annotation
}

func copySet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

func intersectSets(a, b map[string]struct{}) map[string]struct{} {
	if len(a) > len(b) {
		a, b = b, a
	}
	result := make(map[string]struct{}, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			result[k] = struct{}{}
		}
	}
	return result
}
