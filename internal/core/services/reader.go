package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sercha-labs/docreader/internal/core/domain"
	"github.com/sercha-labs/docreader/internal/core/ports/driving"
	"github.com/sercha-labs/docreader/internal/logger"
)

// Reader owns one corpus's loaded artifacts and exposes the stable
// query surface over them. It implements driving.ReaderService.
type Reader struct {
	manifest      domain.Manifest
	spansByID     map[string]domain.Span
	orderedSpans  []domain.Span
	orderToID     map[int]string
	nodeMap       *domain.NodeMap
	buildReport   *domain.BuildReport
	sectionIndex  map[string][]string
	spanToSection map[string]string

	tokenCounter TokenCounter

	mu       sync.Mutex
	lexIndex *LexicalIndex
	tfidf    *TFIDFRanker
	hybrid   *HybridRanker

	warnedSpans map[string]struct{}
	warnings    []domain.Warning
}

var _ driving.ReaderService = (*Reader)(nil)

// NewReader builds a Reader over artifacts. spansById, orderedSpans,
// orderToId, and sectionIndex are built immediately; the lexical and
// ranking indexes are deferred until first queried.
func NewReader(artifacts domain.LoadedArtifacts) *Reader {
	spansByID := make(map[string]domain.Span, len(artifacts.Spans))
	orderedSpans := make([]domain.Span, len(artifacts.Spans))
	copy(orderedSpans, artifacts.Spans)
	sort.Slice(orderedSpans, func(i, j int) bool { return orderedSpans[i].Order < orderedSpans[j].Order })

	orderToID := make(map[int]string, len(orderedSpans))
	for _, s := range orderedSpans {
		spansByID[s.ID] = s
		orderToID[s.Order] = s.ID
	}

	var sectionIndex map[string][]string
	var spanToSection map[string]string
	if artifacts.NodeMap != nil {
		sectionIndex = make(map[string][]string, len(artifacts.NodeMap.Sections))
		spanToSection = make(map[string]string, len(spansByID))
		for sectionID, section := range artifacts.NodeMap.Sections {
			sectionIndex[sectionID] = section.ParagraphIDs
			for _, spanID := range section.ParagraphIDs {
				spanToSection[spanID] = sectionID
			}
		}
	}

	return &Reader{
		manifest:      artifacts.Manifest,
		spansByID:     spansByID,
		orderedSpans:  orderedSpans,
		orderToID:     orderToID,
		nodeMap:       artifacts.NodeMap,
		buildReport:   artifacts.BuildReport,
		sectionIndex:  sectionIndex,
		spanToSection: spanToSection,
		warnedSpans:   make(map[string]struct{}),
	}
}

// SetTokenCounter overrides the token-accounting strategy AssemblePrompt
// uses for its budget check. The default is a character-count proxy.
func (r *Reader) SetTokenCounter(counter TokenCounter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokenCounter = counter
}

// Warnings returns every distinct (by kind and span id) non-fatal
// diagnostic raised by query operations run so far on this Reader.
func (r *Reader) Warnings() []domain.Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

func (r *Reader) GetManifest() domain.Manifest { return r.manifest }

func (r *Reader) GetSpan(id string) (domain.Span, bool) {
	span, ok := r.spansByID[id]
	return span, ok
}

func (r *Reader) GetByOrder(order int) (domain.Span, bool) {
	id, ok := r.orderToID[order]
	if !ok {
		return domain.Span{}, false
	}
	return r.spansByID[id], true
}

func (r *Reader) GetSpanCount() int { return len(r.orderedSpans) }

// Neighbors returns the ids for orders in [order-before, order+after],
// clipped to the corpus bounds, in ascending order. Unknown ids yield
// an empty sequence.
func (r *Reader) Neighbors(id string, opts driving.NeighborOptions) []string {
	span, ok := r.spansByID[id]
	if !ok {
		return nil
	}

	n := len(r.orderedSpans)
	start := span.Order - opts.Before
	if start < 0 {
		start = 0
	}
	end := span.Order + opts.After
	if end > n-1 {
		end = n - 1
	}

	var ids []string
	for o := start; o <= end; o++ {
		if spanID, ok := r.orderToID[o]; ok {
			ids = append(ids, spanID)
		}
	}
	return ids
}

func (r *Reader) ListSections() []string {
	if r.nodeMap == nil {
		return nil
	}
	return r.nodeMap.SectionIDs()
}

func (r *Reader) GetSection(sectionID string) ([]string, bool) {
	ids, ok := r.sectionIndex[sectionID]
	return ids, ok
}

func (r *Reader) GetNodeMap() (*domain.NodeMap, bool) {
	return r.nodeMap, r.nodeMap != nil
}

func (r *Reader) GetBuildReport() (*domain.BuildReport, bool) {
	return r.buildReport, r.buildReport != nil
}

// EnableTFCache force-builds the lexical index and TF-IDF ranker if
// needed, then enables the bounded LRU cache.
func (r *Reader) EnableTFCache(size int) {
	_, tfidf, _ := r.ensureIndexes(false)
	tfidf.EnableCache(size)
}

func (r *Reader) ensureIndexes(needHybrid bool) (*LexicalIndex, *TFIDFRanker, *HybridRanker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lexIndex == nil {
		r.lexIndex = NewLexicalIndex(r.orderedSpans)
	}
	if r.tfidf == nil {
		r.tfidf = NewTFIDFRanker(r.lexIndex)
	}
	if needHybrid && r.hybrid == nil {
		r.hybrid = NewHybridRanker(r.lexIndex, r.tfidf)
	}
	return r.lexIndex, r.tfidf, r.hybrid
}

// Search runs a lexical lookup over the corpus, optionally ranks the
// hits, then applies a single sort and truncation.
func (r *Reader) Search(query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	needHybrid := opts.Rank == domain.RankHybrid
	lexIndex, tfidf, hybrid := r.ensureIndexes(needHybrid)

	var limitForSearch *int
	if opts.Rank == domain.RankNone && opts.Limit > 0 {
		l := opts.Limit
		limitForSearch = &l
	}

	results := lexIndex.SearchWithHits(query, limitForSearch, opts.Fuzzy)
	_, queryTokens := ParseQuery(query)

	switch opts.Rank {
	case domain.RankTFIDF:
		results = tfidf.RankWithHits(results, queryTokens, DefaultPhraseBoost)
		sortByScoreThenOrder(results)
	case domain.RankHybrid:
		queryEmbedding := EmbedText(query)
		hybridOpts := domain.DefaultHybridOptions()
		if opts.Hybrid != nil {
			hybridOpts = *opts.Hybrid
		}

		scored, warnings, err := hybrid.Rank(results, queryTokens, queryEmbedding, hybridOpts)
		if err != nil {
			return nil, err
		}
		results = scored
		r.recordWarnings(warnings)
		sortByScoreThenOrder(results)
	default:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Order < results[j].Order })
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func sortByScoreThenOrder(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Order < results[j].Order
	})
}

// recordWarnings appends only the first occurrence of each (kind,
// span) pair this Reader has seen, one warning per span per Reader
// lifetime, and echoes it through the logger.
func (r *Reader) recordWarnings(warnings []domain.Warning) {
	if len(warnings) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range warnings {
		key := w.Kind + ":" + w.SpanID
		if _, seen := r.warnedSpans[key]; seen {
			continue
		}
		r.warnedSpans[key] = struct{}{}
		r.warnings = append(r.warnings, w)
		logger.Warn("%s: %s (span %s)", w.Kind, w.Message, w.SpanID)
	}
}

// packExpansion is one candidate's pre-merge expansion: the window of
// paragraph ids it claims and the packId that window hashes to.
type packExpansion struct {
	packID       string
	scope        domain.PackScope
	paragraphIDs []string
	headingPath  []string
	entry        domain.RetrievalPackEntry
}

// Retrieve builds context packs from a query: oversample, expand,
// merge-dedupe, materialize, sort, and budget.
func (r *Reader) Retrieve(query string, opts domain.RetrievalOptions) ([]domain.RetrievalPack, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}
	expand := opts.Expand
	if expand == "" {
		expand = domain.ExpandNeighbors
	}
	rank := opts.Rank
	if rank == "" {
		rank = domain.RankTFIDF
	}

	searchResults, err := r.Search(query, domain.SearchOptions{Limit: limit * 4, Rank: rank})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.RetrievalPackEntry, 0, len(searchResults))
	for _, res := range searchResults {
		span, ok := r.spansByID[res.SpanID]
		if !ok {
			continue
		}
		entries = append(entries, domain.RetrievalPackEntry{
			SpanID:      res.SpanID,
			Order:       res.Order,
			Score:       res.Score,
			HeadingPath: span.HeadingPath,
			Hits:        res.Annotation,
		})
	}

	expansions := make([]packExpansion, 0, len(entries))
	for _, entry := range entries {
		expansions = append(expansions, r.expandEntry(entry, expand, opts.PerHitNeighbors))
	}

	merged := r.mergeDedupe(expansions)
	packs := r.materialize(merged)

	sort.SliceStable(packs, func(i, j int) bool {
		if packs[i].Entry.Score != packs[j].Entry.Score {
			return packs[i].Entry.Score > packs[j].Entry.Score
		}
		return packs[i].Entry.Order < packs[j].Entry.Order
	})

	return budgetPacks(packs, limit, opts.MaxTokens), nil
}

func (r *Reader) expandEntry(entry domain.RetrievalPackEntry, expand domain.ExpandMode, perHitNeighbors int) packExpansion {
	if expand == domain.ExpandSection {
		if expansion, ok := r.expandSection(entry); ok {
			return expansion
		}
	}
	return r.expandNeighbors(entry, perHitNeighbors)
}

func (r *Reader) expandNeighbors(entry domain.RetrievalPackEntry, perHitNeighbors int) packExpansion {
	n := len(r.orderedSpans)
	start := entry.Order - perHitNeighbors
	if start < 0 {
		start = 0
	}
	end := entry.Order + perHitNeighbors
	if end > n-1 {
		end = n - 1
	}

	var ids []string
	for o := start; o <= end; o++ {
		if id, ok := r.orderToID[o]; ok {
			ids = append(ids, id)
		}
	}

	return packExpansion{
		packID:       fmt.Sprintf("o:%d-%d", start, end),
		scope:        domain.PackScope{Type: domain.ExpandNeighbors, Range: &domain.OrderRange{Start: start, End: end}},
		paragraphIDs: ids,
		headingPath:  entry.HeadingPath,
		entry:        entry,
	}
}

// expandSection widens entry to its enclosing section's full span
// range. It reports ok=false when there is no node map or the span has
// no resolvable parent section, so the caller falls back to neighbors.
func (r *Reader) expandSection(entry domain.RetrievalPackEntry) (packExpansion, bool) {
	if r.nodeMap == nil {
		return packExpansion{}, false
	}
	sectionID, ok := r.spanToSection[entry.SpanID]
	if !ok {
		return packExpansion{}, false
	}
	section, ok := r.nodeMap.Sections[sectionID]
	if !ok {
		return packExpansion{}, false
	}

	return packExpansion{
		packID:       "s:" + sectionID,
		scope:        domain.PackScope{Type: domain.ExpandSection, SectionID: sectionID},
		paragraphIDs: append([]string(nil), section.ParagraphIDs...),
		headingPath:  sectionHeadingPath(section),
		entry:        entry,
	}, true
}

func sectionHeadingPath(section domain.Section) []string {
	trimmed := strings.TrimLeft(section.Heading, "#")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return nil
	}
	return []string{trimmed}
}

// mergeDedupe groups expansions by packId, keeping the highest-scoring
// entry per group (ties broken by lower order) and unioning every
// group's paragraph ids in document order with no duplicates.
func (r *Reader) mergeDedupe(expansions []packExpansion) []packExpansion {
	groups := make(map[string][]packExpansion)
	var packIDOrder []string
	for _, e := range expansions {
		if _, seen := groups[e.packID]; !seen {
			packIDOrder = append(packIDOrder, e.packID)
		}
		groups[e.packID] = append(groups[e.packID], e)
	}

	merged := make([]packExpansion, 0, len(packIDOrder))
	for _, packID := range packIDOrder {
		group := groups[packID]

		best := group[0]
		for _, g := range group[1:] {
			if g.entry.Score > best.entry.Score ||
				(g.entry.Score == best.entry.Score && g.entry.Order < best.entry.Order) {
				best = g
			}
		}

		seen := make(map[string]struct{})
		var ids []string
		for _, g := range group {
			for _, id := range g.paragraphIDs {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool {
			return r.spansByID[ids[i]].Order < r.spansByID[ids[j]].Order
		})

		merged = append(merged, packExpansion{
			packID:       packID,
			scope:        best.scope,
			paragraphIDs: ids,
			headingPath:  best.headingPath,
			entry:        best.entry,
		})
	}
	return merged
}

func (r *Reader) materialize(expansions []packExpansion) []domain.RetrievalPack {
	packs := make([]domain.RetrievalPack, 0, len(expansions))
	for _, e := range expansions {
		texts := make([]string, 0, len(e.paragraphIDs))
		for _, id := range e.paragraphIDs {
			if span, ok := r.spansByID[id]; ok {
				texts = append(texts, span.Text)
			}
		}
		text := strings.Join(texts, "\n\n")

		packs = append(packs, domain.RetrievalPack{
			PackID:       e.packID,
			Scope:        e.scope,
			ParagraphIDs: e.paragraphIDs,
			Text:         text,
			Entry:        e.entry,
			Meta: domain.PackMeta{
				HeadingPath: e.headingPath,
				SpanCount:   len(e.paragraphIDs),
				CharCount:   utf8.RuneCountInString(text),
			},
		})
	}
	return packs
}

// budgetPacks greedily keeps packs, in the order given, stopping
// before the first pack that would exceed the pack-count limit or push
// the running char-count sum over maxTokens.
func budgetPacks(packs []domain.RetrievalPack, limit, maxTokens int) []domain.RetrievalPack {
	var result []domain.RetrievalPack
	sum := 0
	for _, p := range packs {
		if limit > 0 && len(result) >= limit {
			break
		}
		if maxTokens > 0 && sum+p.Meta.CharCount > maxTokens {
			break
		}
		result = append(result, p)
		sum += p.Meta.CharCount
	}
	return result
}

// AssemblePrompt delegates to the package-level prompt assembler,
// injecting this Reader's manifest id as docId.
func (r *Reader) AssemblePrompt(opts domain.AssembleOptions) (domain.AssembledPrompt, error) {
	r.mu.Lock()
	counter := r.tokenCounter
	r.mu.Unlock()

	return AssemblePrompt(r.manifest.ID, opts, counter), nil
}
