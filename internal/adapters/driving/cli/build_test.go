package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildCmdFixture = `# Title

Intro paragraph.

## Section

Body text.
`

func TestBuildCmd_Use(t *testing.T) {
	assert.Equal(t, "build [source]", buildCmd.Use)
}

func TestBuildCmd_CompilesSourceIntoArtifactDir(t *testing.T) {
	sourceDir := t.TempDir()
	outDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(buildCmdFixture), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"build", sourcePath, "--dir", outDir})
	defer func() {
		rootCmd.SetArgs(nil)
		artifactDir = "."
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Compiled")

	_, err := os.Stat(filepath.Join(outDir, "manifest.json"))
	assert.NoError(t, err)
}

func TestBuildCmd_RejectsUnrecognizedFormat(t *testing.T) {
	sourceDir := t.TempDir()
	outDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(buildCmdFixture), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"build", sourcePath, "--dir", outDir, "--format", "bogus"})
	defer func() {
		rootCmd.SetArgs(nil)
		artifactDir = "."
		buildFormat = ""
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized --format")
}

func TestBuildCmd_JSONOutput(t *testing.T) {
	sourceDir := t.TempDir()
	outDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "doc.md")
	require.NoError(t, os.WriteFile(sourcePath, []byte(buildCmdFixture), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"build", sourcePath, "--dir", outDir, "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		artifactDir = "."
		buildJSON = false
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "\"summary\"")
}
