package driven

import "github.com/sercha-labs/docreader/internal/core/domain"

// ArtifactSource loads a corpus's artifact set from storage. The
// only production implementation reads from a filesystem directory
// (internal/adapters/driven/fsartifacts); tests substitute an
// in-memory fixture.
type ArtifactSource interface {
	// Load reads manifest.json and spans.jsonl (required) plus
	// nodeMap.json and buildReport.json (optional, silently absent)
	// from the given directory and returns the populated, validated
	// result. directory must exist and be a directory.
	Load(directory string) (domain.LoadedArtifacts, error)
}
