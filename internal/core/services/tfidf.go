package services

import (
	"container/list"
	"math"
	"sync"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// DefaultPhraseBoost is the per-matched-phrase score contribution
// RankWithHits callers use unless they have a reason to override it.
const DefaultPhraseBoost = 0.1

// maxPhraseBoost caps the total phrase-match contribution so a query
// with many phrases cannot drown out lexical relevance.
const maxPhraseBoost = 0.3

// spanTF holds a span's per-token TF values and raw token count,
// cacheable so repeated queries over the same corpus avoid
// re-tokenizing span text.
type spanTF struct {
	tfMap     map[string]float64
	docLength int
}

// TFIDFRanker computes TF-IDF relevance scores over spans surfaced by
// a LexicalIndex.
type TFIDFRanker struct {
	index *LexicalIndex

	mu    sync.Mutex
	cache *lruTFCache
}

// NewTFIDFRanker builds a ranker over index. The TF cache is disabled
// until EnableCache is called.
func NewTFIDFRanker(index *LexicalIndex) *TFIDFRanker {
	return &TFIDFRanker{index: index}
}

// EnableCache turns on the bounded LRU TF cache with the given
// capacity. Calling it again while already enabled is a no-op: it
// does not resize, clear, or duplicate the existing cache.
func (r *TFIDFRanker) EnableCache(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil {
		return
	}
	if size <= 0 {
		size = 100
	}
	r.cache = newLRUTFCache(size)
}

// RankWithHits scores each result against queryTokens, adds a
// phrase-match boost capped at maxPhraseBoost, writes the sum to
// result.Score, and returns the results unsorted (ranking order is
// the Reader's responsibility).
func (r *TFIDFRanker) RankWithHits(results []domain.SearchResult, queryTokens []string, phraseBoost float64) []domain.SearchResult {
	for i := range results {
		span, ok := r.index.spansByID[results[i].SpanID]
		if !ok {
			continue
		}

		score := r.scoreSpan(span, queryTokens)
		phraseCount := results[i].Annotation.DistinctPhraseCount()
		boost := math.Min(maxPhraseBoost, float64(phraseCount)*phraseBoost)
		results[i].Score = score + boost
	}
	return results
}

func (r *TFIDFRanker) scoreSpan(span domain.Span, queryTokens []string) float64 {
	data := r.spanTFData(span)
	if data.docLength == 0 {
		return 0
	}

	n := float64(r.index.TotalDocuments())
	var sum float64
	for _, t := range queryTokens {
		tf := data.tfMap[t]
		if tf == 0 {
			continue
		}
		idf := math.Log(n / float64(1+r.index.DocumentFrequency(t)))
		sum += tf * idf
	}
	return sum / math.Sqrt(float64(data.docLength))
}

func (r *TFIDFRanker) spanTFData(span domain.Span) spanTF {
	r.mu.Lock()
	cache := r.cache
	r.mu.Unlock()

	if cache != nil {
		if data, ok := cache.get(span.ID); ok {
			return data
		}
	}

	tokens := Tokenize(span.Text)
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	tfMap := make(map[string]float64, len(counts))
	for t, c := range counts {
		tfMap[t] = 1 + math.Log(float64(c))
	}
	data := spanTF{tfMap: tfMap, docLength: len(tokens)}

	if cache != nil {
		cache.put(span.ID, data)
	}
	return data
}

// lruTFCache is a bounded spanId -> spanTF cache kept in MRU-first
// order that evicts the least recently used entry on overflow,
// backed by a doubly linked list so both lookup and
// recency updates are O(1).
type lruTFCache struct {
	capacity int
	mu       sync.Mutex
	order    *list.List
	items    map[string]*list.Element
}

type lruTFEntry struct {
	key  string
	data spanTF
}

func newLRUTFCache(capacity int) *lruTFCache {
	return &lruTFCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *lruTFCache) get(key string) (spanTF, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return spanTF{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruTFEntry).data, true
}

func (c *lruTFCache) put(key string, data spanTF) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruTFEntry).data = data
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&lruTFEntry{key: key, data: data})
	c.items[key] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruTFEntry).key)
		}
	}
}
