package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

const sampleMarkdown = `# Sample Document

This is the intro paragraph.

## Section One

Body text for section one.

## Section Two

Body text for section two, with brown foxes.
`

func TestRun_WritesAllFourArtifacts(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(sampleMarkdown), 0o644))

	report, err := Run(sourcePath, outputDir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, report.Summary.SpanCount)

	for _, name := range []string{manifestFileName, spansFileName, nodeMapFileName, buildReportFileName} {
		_, statErr := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, statErr, "expected %s to exist", name)
	}

	manifestData, err := os.ReadFile(filepath.Join(outputDir, manifestFileName))
	require.NoError(t, err)
	var manifest domain.Manifest
	require.NoError(t, json.Unmarshal(manifestData, &manifest))
	assert.Equal(t, "Sample Document", manifest.Title)
	assert.Equal(t, "corpus:", manifest.ID[:7])
	assert.Equal(t, 6, manifest.SpanCount)
}

func TestRun_SpansFileIsOneJSONObjectPerLine(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(sampleMarkdown), 0o644))

	_, err := Run(sourcePath, outputDir, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, spansFileName))
	require.NoError(t, err)

	var spans []domain.Span
	lines := splitLines(string(data))
	for _, line := range lines {
		var s domain.Span
		require.NoError(t, json.Unmarshal([]byte(line), &s))
		spans = append(spans, s)
	}
	require.Len(t, spans, 6)
	for i, s := range spans {
		assert.Equal(t, i, s.Order)
		require.NotEmpty(t, s.Embedding)
	}
}

func TestRun_SkipEmbeddingsOmitsVectors(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(sampleMarkdown), 0o644))

	_, err := Run(sourcePath, outputDir, Options{SkipEmbeddings: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, spansFileName))
	require.NoError(t, err)
	var first domain.Span
	require.NoError(t, json.Unmarshal([]byte(splitLines(string(data))[0]), &first))
	assert.Empty(t, first.Embedding)
}

func TestRun_NodeMapReflectsHeadingStructure(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(sampleMarkdown), 0o644))

	_, err := Run(sourcePath, outputDir, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, nodeMapFileName))
	require.NoError(t, err)
	var nodeMap domain.NodeMap
	require.NoError(t, json.Unmarshal(data, &nodeMap))

	require.Len(t, nodeMap.Chapters, 1)
	require.Len(t, nodeMap.Sections, 3)
}

func TestRun_UnrecognizedExtensionErrors(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.pdf")
	require.NoError(t, os.WriteFile(sourcePath, []byte("content"), 0o644))

	_, err := Run(sourcePath, outputDir, Options{})
	require.Error(t, err)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			if line := s[start:i]; line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
