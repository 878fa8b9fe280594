package build

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

const (
	manifestFileName    = "manifest.json"
	spansFileName       = "spans.jsonl"
	nodeMapFileName     = "nodeMap.json"
	buildReportFileName = "buildReport.json"
)

// writeArtifacts writes the four-file contract to dir, creating it if
// needed. spans.jsonl is one compact JSON object per line; the other
// three files are pretty-printed.
func writeArtifacts(dir string, manifest domain.Manifest, spans []domain.Span, nodeMap *domain.NodeMap, report domain.BuildReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writePretty(filepath.Join(dir, manifestFileName), manifest); err != nil {
		return err
	}
	if err := writeSpans(filepath.Join(dir, spansFileName), spans); err != nil {
		return err
	}
	if err := writePretty(filepath.Join(dir, nodeMapFileName), nodeMap); err != nil {
		return err
	}
	if err := writePretty(filepath.Join(dir, buildReportFileName), report); err != nil {
		return err
	}

	return nil
}

func writePretty(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func writeSpans(path string, spans []domain.Span) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, s := range spans {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
