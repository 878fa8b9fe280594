package build

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

const compilerVersion = "1.0.0"
const readerAdapter = "fsartifacts"

// corpusID derives the content-addressed manifest id from the hex
// sourceHash: "corpus:" plus its first 12 characters.
func corpusID(sourceHash string) string {
	n := 12
	if len(sourceHash) < n {
		n = len(sourceHash)
	}
	return "corpus:" + sourceHash[:n]
}

// hashSource returns the hex SHA-256 digest of the normalized source.
func hashSource(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// titleFromSource returns title, falling back to a filename derived
// from sourcePath when the document supplied none (no H1 found).
func titleFromSource(title, sourcePath string) string {
	if title != "" {
		return title
	}

	name := filepath.Base(sourcePath)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// buildManifest assembles the manifest record for a completed build.
func buildManifest(sourcePath, normalized, title string, spanCount int, format Format, detection domain.Detection, now time.Time) domain.Manifest {
	hash := hashSource(normalized)

	return domain.Manifest{
		ID:         corpusID(hash),
		Title:      titleFromSource(title, sourcePath),
		CreatedAt:  now.UTC().Format(time.RFC3339),
		SourcePath: sourcePath,
		SourceHash: hash,
		ByteLength: len(normalized),
		SpanCount:  spanCount,
		Version:    compilerVersion,
		Format:     string(format),
		Detection:  detection,
		Reader:     readerAdapter,
		Normalization: domain.Normalization{
			Unicode:           "NFC",
			EOL:               "LF",
			BlankLineCollapse: true,
		},
		Schema: domain.SchemaVersions{
			Manifest:    "1.0.0",
			Spans:       "1.0.0",
			NodeMap:     "1.0.0",
			BuildReport: "1.0.0",
		},
	}
}
