package driving

import "github.com/sercha-labs/docreader/internal/core/domain"

// NeighborOptions bounds a Reader.Neighbors expansion.
type NeighborOptions struct {
	Before int
	After  int
}

// ReaderService is the stable, public query surface over a loaded
// corpus. All operations are read-only with respect to query
// results; lazy index construction and TF-cache population are the
// only observable internal state transitions.
type ReaderService interface {
	GetManifest() domain.Manifest
	GetSpan(id string) (domain.Span, bool)
	GetByOrder(order int) (domain.Span, bool)
	GetSpanCount() int

	Neighbors(id string, opts NeighborOptions) []string

	ListSections() []string
	GetSection(sectionID string) ([]string, bool)

	GetNodeMap() (*domain.NodeMap, bool)
	GetBuildReport() (*domain.BuildReport, bool)

	EnableTFCache(size int)

	Search(query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
	Retrieve(query string, opts domain.RetrievalOptions) ([]domain.RetrievalPack, error)
	AssemblePrompt(opts domain.AssembleOptions) (domain.AssembledPrompt, error)
}
