package cli

import (
	"github.com/sercha-labs/docreader/internal/core/domain"
	"github.com/sercha-labs/docreader/internal/core/ports/driving"
)

// fakeReader is a hand-rolled driving.ReaderService double: CLI tests
// install it via setReader so they can exercise flag parsing and
// output formatting without a real artifact directory on disk.
type fakeReader struct {
	manifest      domain.Manifest
	buildReport   *domain.BuildReport
	searchResults []domain.SearchResult
	searchErr     error
	packs         []domain.RetrievalPack
	retrieveErr   error
	assembled     domain.AssembledPrompt
	assembleErr   error
	cacheSize     int
}

func (f *fakeReader) GetManifest() domain.Manifest             { return f.manifest }
func (f *fakeReader) GetSpan(string) (domain.Span, bool)       { return domain.Span{}, false }
func (f *fakeReader) GetByOrder(int) (domain.Span, bool)       { return domain.Span{}, false }
func (f *fakeReader) GetSpanCount() int                        { return 0 }
func (f *fakeReader) Neighbors(string, driving.NeighborOptions) []string { return nil }
func (f *fakeReader) ListSections() []string                   { return nil }
func (f *fakeReader) GetSection(string) ([]string, bool)       { return nil, false }
func (f *fakeReader) GetNodeMap() (*domain.NodeMap, bool)      { return nil, false }
func (f *fakeReader) GetBuildReport() (*domain.BuildReport, bool) {
	if f.buildReport == nil {
		return nil, false
	}
	return f.buildReport, true
}
func (f *fakeReader) EnableTFCache(size int) { f.cacheSize = size }

func (f *fakeReader) Search(string, domain.SearchOptions) ([]domain.SearchResult, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeReader) Retrieve(string, domain.RetrievalOptions) ([]domain.RetrievalPack, error) {
	return f.packs, f.retrieveErr
}

func (f *fakeReader) AssemblePrompt(domain.AssembleOptions) (domain.AssembledPrompt, error) {
	return f.assembled, f.assembleErr
}

// setReader installs r as the reader factory for the duration of a
// test and returns a func to restore the previous factory.
func setReader(r driving.ReaderService, err error) func() {
	original := openReader
	openReader = func() (driving.ReaderService, error) { return r, err }
	return func() { openReader = original }
}
