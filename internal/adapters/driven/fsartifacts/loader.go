// Package fsartifacts implements the filesystem artifact loader: it
// reads the four-file contract a build pipeline run produces and
// turns it into the in-memory LoadedArtifacts record the Reader is
// constructed from.
package fsartifacts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sercha-labs/docreader/internal/core/domain"
	"github.com/sercha-labs/docreader/internal/core/ports/driven"
)

const (
	manifestFile    = "manifest.json"
	spansFile       = "spans.jsonl"
	nodeMapFile     = "nodeMap.json"
	buildReportFile = "buildReport.json"
)

// Expected schema major versions this loader accepts. A manifest whose
// schema has a different major component is rejected as incompatible.
const (
	expectedManifestMajor    = "1"
	expectedSpansMajor       = "1"
	expectedNodeMapMajor     = "1"
	expectedBuildReportMajor = "1"
)

// Loader reads a corpus's artifacts from a directory on disk.
type Loader struct{}

var _ driven.ArtifactSource = Loader{}

// New builds a filesystem-backed artifact loader.
func New() Loader { return Loader{} }

// Load implements driven.ArtifactSource.
func (Loader) Load(directory string) (domain.LoadedArtifacts, error) {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return domain.LoadedArtifacts{}, domain.NewArtifactMissing(directory)
	}

	manifest, err := loadManifest(directory)
	if err != nil {
		return domain.LoadedArtifacts{}, err
	}

	spans, err := loadSpans(directory)
	if err != nil {
		return domain.LoadedArtifacts{}, err
	}

	nodeMap, warnings, err := loadNodeMap(directory, spans)
	if err != nil {
		return domain.LoadedArtifacts{}, err
	}

	buildReport, err := loadBuildReport(directory)
	if err != nil {
		return domain.LoadedArtifacts{}, err
	}

	return domain.LoadedArtifacts{
		Manifest:    manifest,
		Spans:       spans,
		NodeMap:     nodeMap,
		BuildReport: buildReport,
		Warnings:    warnings,
	}, nil
}

func loadManifest(directory string) (domain.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(directory, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Manifest{}, domain.NewArtifactMissing(manifestFile)
		}
		return domain.Manifest{}, domain.NewArtifactInvalid(manifestFile, 0, err.Error())
	}

	var manifest domain.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return domain.Manifest{}, domain.NewArtifactInvalid(manifestFile, 0, "malformed JSON: "+err.Error())
	}
	if manifest.ID == "" {
		return domain.Manifest{}, domain.NewArtifactInvalid(manifestFile, 0, "missing id field")
	}

	for _, check := range []struct {
		field, version, expectedMajor string
	}{
		{"manifest", manifest.Schema.Manifest, expectedManifestMajor},
		{"spans", manifest.Schema.Spans, expectedSpansMajor},
		{"nodeMap", manifest.Schema.NodeMap, expectedNodeMapMajor},
		{"buildReport", manifest.Schema.BuildReport, expectedBuildReportMajor},
	} {
		if err := checkSchemaMajor(check.field, check.version, check.expectedMajor); err != nil {
			return domain.Manifest{}, err
		}
	}

	return manifest, nil
}

// checkSchemaMajor enforces schema-version compatibility: loaders
// accept any artifact whose schema version shares the loader's
// expected major component. An empty version is tolerated (nothing
// declared to check against).
func checkSchemaMajor(field, version, expectedMajor string) error {
	if version == "" {
		return nil
	}
	major := strings.SplitN(version, ".", 2)[0]
	if major != expectedMajor {
		reason := fmt.Sprintf("%s schema major version %q incompatible with expected %q", field, major, expectedMajor)
		return domain.NewArtifactInvalid(manifestFile, 0, reason)
	}
	return nil
}

func loadSpans(directory string) ([]domain.Span, error) {
	f, err := os.Open(filepath.Join(directory, spansFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewArtifactMissing(spansFile)
		}
		return nil, domain.NewArtifactInvalid(spansFile, 0, err.Error())
	}
	defer f.Close()

	var spans []domain.Span
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return nil, domain.NewArtifactInvalid(spansFile, lineNo, "empty line")
		}

		var span domain.Span
		if err := json.Unmarshal([]byte(line), &span); err != nil {
			return nil, domain.NewArtifactInvalid(spansFile, lineNo, "malformed JSON: "+err.Error())
		}
		if span.ID == "" {
			return nil, domain.NewArtifactInvalid(spansFile, lineNo, "missing id field")
		}
		spans = append(spans, span)
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewArtifactInvalid(spansFile, lineNo, err.Error())
	}

	return spans, nil
}

// loadNodeMap returns (nil, nil, nil) when the optional file is
// absent. A section referencing a span id absent from spans is
// reported as a warning rather than failing the whole load; the
// loader performs no other cross-validation or recomputation.
func loadNodeMap(directory string, spans []domain.Span) (*domain.NodeMap, []domain.Warning, error) {
	data, err := os.ReadFile(filepath.Join(directory, nodeMapFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, domain.NewArtifactInvalid(nodeMapFile, 0, err.Error())
	}

	var nodeMap domain.NodeMap
	if err := json.Unmarshal(data, &nodeMap); err != nil {
		return nil, nil, domain.NewArtifactInvalid(nodeMapFile, 0, "malformed JSON: "+err.Error())
	}

	known := make(map[string]struct{}, len(spans))
	for _, s := range spans {
		known[s.ID] = struct{}{}
	}

	var warnings []domain.Warning
	for sectionID, section := range nodeMap.Sections {
		for _, spanID := range section.ParagraphIDs {
			if _, ok := known[spanID]; ok {
				continue
			}
			warnings = append(warnings, newLoadWarning(
				"dangling_section_reference",
				spanID,
				fmt.Sprintf("section %s references span %s, which is absent from spans.jsonl", sectionID, spanID),
			))
		}
	}

	return &nodeMap, warnings, nil
}

func loadBuildReport(directory string) (*domain.BuildReport, error) {
	data, err := os.ReadFile(filepath.Join(directory, buildReportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.NewArtifactInvalid(buildReportFile, 0, err.Error())
	}

	var report domain.BuildReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, domain.NewArtifactInvalid(buildReportFile, 0, "malformed JSON: "+err.Error())
	}
	return &report, nil
}

func newLoadWarning(kind, spanID, message string) domain.Warning {
	return domain.Warning{ID: uuid.New().String(), Kind: kind, SpanID: spanID, Message: message}
}
