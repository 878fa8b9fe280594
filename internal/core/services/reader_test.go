package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sercha-labs/docreader/internal/core/domain"
	"github.com/sercha-labs/docreader/internal/core/ports/driving"
)

// endToEndCorpus builds the 9-span Markdown fixture used across the
// reader, retrieval, and prompt scenarios: an H1 title, two H2
// sections, and paragraphs exercising bold emphasis, a contraction,
// and fuzzy/brown-fox vocabulary.
func endToEndCorpus() domain.LoadedArtifacts {
	spans := []domain.Span{
		{ID: "span:000001", Order: 0, Text: "Sample Markdown Document", HeadingPath: nil},
		{ID: "span:000002", Order: 1, Text: "This document has multiple sections to test search behavior.", HeadingPath: []string{"Sample Markdown Document"}},
		{ID: "span:000003", Order: 2, Text: "Section Two", HeadingPath: []string{"Sample Markdown Document"}},
		{ID: "span:000004", Order: 3, Text: "Section two covers **bold** configuration details.", HeadingPath: []string{"Sample Markdown Document", "Section Two"}},
		{ID: "span:000005", Order: 4, Text: "Here's a contraction example used for apostrophe handling.", HeadingPath: []string{"Sample Markdown Document", "Section Two"}},
		{ID: "span:000006", Order: 5, Text: "Section Three", HeadingPath: []string{"Sample Markdown Document"}},
		{ID: "span:000007", Order: 6, Text: "Section three discusses additional topics like brown foxes.", HeadingPath: []string{"Sample Markdown Document", "Section Three"}},
		{ID: "span:000008", Order: 7, Text: "A third paragraph about brown bears and foxes for fuzzy matching tests.", HeadingPath: []string{"Sample Markdown Document", "Section Three"}},
		{ID: "span:000009", Order: 8, Text: "Final remarks concluding the two sample markdown document mentions.", HeadingPath: []string{"Sample Markdown Document"}},
	}

	nodeMap := &domain.NodeMap{
		Book: domain.Book{ID: "corpus:abcdef123456", Title: "Sample Markdown Document"},
		Chapters: map[string][]string{
			"chap:000001": {"sec:000001", "sec:000002", "sec:000003"},
		},
		Sections: map[string]domain.Section{
			"sec:000001": {Heading: "", ParagraphIDs: []string{"span:000001", "span:000002"}},
			"sec:000002": {Heading: "## Section Two", ParagraphIDs: []string{"span:000003", "span:000004", "span:000005"}},
			"sec:000003": {Heading: "## Section Three", ParagraphIDs: []string{"span:000006", "span:000007", "span:000008", "span:000009"}},
		},
		Paragraphs: map[string]string{},
	}

	manifest := domain.Manifest{
		ID:         "corpus:abcdef123456",
		Title:      "Sample Markdown Document",
		SourceHash: "abcdef123456",
		SpanCount:  len(spans),
	}

	return domain.LoadedArtifacts{Manifest: manifest, Spans: spans, NodeMap: nodeMap}
}

func TestReader_Search_CaseInsensitiveSameOrder(t *testing.T) {
	r := NewReader(endToEndCorpus())

	lower, err := r.Search("section", domain.SearchOptions{})
	require.NoError(t, err)
	upper, err := r.Search("SECTION", domain.SearchOptions{})
	require.NoError(t, err)
	mixed, err := r.Search("SeCtiOn", domain.SearchOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, lower)
	assert.Equal(t, idsOf(lower), idsOf(upper))
	assert.Equal(t, idsOf(lower), idsOf(mixed))

	for i := 1; i < len(lower); i++ {
		assert.Less(t, lower[i-1].Order, lower[i].Order)
	}
}

func TestReader_Search_MultiTokenANDNarrowsResults(t *testing.T) {
	r := NewReader(endToEndCorpus())

	both, err := r.Search("section two", domain.SearchOptions{})
	require.NoError(t, err)

	sectionOnly, err := r.Search("section", domain.SearchOptions{})
	require.NoError(t, err)
	twoOnly, err := r.Search("two", domain.SearchOptions{})
	require.NoError(t, err)

	assert.Less(t, len(both), len(sectionOnly))
	assert.Less(t, len(both), len(twoOnly))
}

func TestReader_Search_MatchesBoldAndContraction(t *testing.T) {
	r := NewReader(endToEndCorpus())

	bold, err := r.Search("bold", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, bold, 1)
	assert.Equal(t, "span:000004", bold[0].SpanID)

	here, err := r.Search("here", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, here, 1)
	assert.Equal(t, "span:000005", here[0].SpanID)
}

func TestReader_Search_EmptyAndNonexistentQueriesAreEmpty(t *testing.T) {
	r := NewReader(endToEndCorpus())

	empty, err := r.Search("", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	nonexistent, err := r.Search("nonexistentxyz123", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, nonexistent)
}

func TestReader_Neighbors_ClipsToCorpusBounds(t *testing.T) {
	r := NewReader(endToEndCorpus())
	ids := r.Neighbors("span:000001", driving.NeighborOptions{Before: 5, After: 1})
	assert.Equal(t, []string{"span:000001", "span:000002"}, ids)
}

func TestReader_Neighbors_UnknownIDIsEmpty(t *testing.T) {
	r := NewReader(endToEndCorpus())
	assert.Empty(t, r.Neighbors("span:999999", driving.NeighborOptions{Before: 1, After: 1}))
}

func TestReader_Retrieve_MergesOverlappingNeighborsWithUniquePackIDs(t *testing.T) {
	r := NewReader(endToEndCorpus())

	packs, err := r.Retrieve("section", domain.RetrievalOptions{Limit: 5, PerHitNeighbors: 3, Expand: domain.ExpandNeighbors})
	require.NoError(t, err)
	require.NotEmpty(t, packs)

	seen := make(map[string]struct{})
	for _, p := range packs {
		_, dup := seen[p.PackID]
		assert.False(t, dup, "duplicate packId %s", p.PackID)
		seen[p.PackID] = struct{}{}
	}
}

func TestReader_Retrieve_SectionModeFallsBackToNeighborsWithoutNodeMap(t *testing.T) {
	artifacts := endToEndCorpus()
	artifacts.NodeMap = nil
	r := NewReader(artifacts)

	packs, err := r.Retrieve("brown", domain.RetrievalOptions{Limit: 5, PerHitNeighbors: 1, Expand: domain.ExpandSection})
	require.NoError(t, err)
	for _, p := range packs {
		assert.Equal(t, domain.ExpandNeighbors, p.Scope.Type)
	}
}

func TestReader_AssemblePrompt_TwoPacksProduceNumberedCitations(t *testing.T) {
	r := NewReader(endToEndCorpus())

	packs, err := r.Retrieve("section", domain.RetrievalOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, packs, 2)

	assembled, err := r.AssemblePrompt(domain.AssembleOptions{Question: "What is a section?", Packs: packs})
	require.NoError(t, err)

	assert.Contains(t, assembled.Prompt.User, "What is a section?")
	assert.Contains(t, assembled.Prompt.User, "You may reference [¹]…[²].")
	require.Len(t, assembled.Citations, 2)
	assert.Equal(t, "[¹]", assembled.Citations[0].Marker)
	assert.Equal(t, "[²]", assembled.Citations[1].Marker)
	assert.Contains(t, assembled.Prompt.User, "[¹]")
	assert.Contains(t, assembled.Prompt.User, "[²]")
}

func idsOf(results []domain.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.SpanID
	}
	return ids
}
