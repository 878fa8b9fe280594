package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
}

func TestLoad_OverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := `
rank = "hybrid"

[hybrid]
weight_lexical = 0.5
weight_semantic = 0.5
normalize = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0o644))

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", settings.Rank)
	assert.Equal(t, 0.5, settings.Hybrid.WeightLexical)
	assert.Equal(t, 0.5, settings.Hybrid.WeightSemantic)
	assert.False(t, settings.Hybrid.Normalize)
	// Fuzzy section absent from the file: defaults survive untouched.
	assert.Equal(t, Default().Fuzzy, settings.Fuzzy)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	settings := Default()
	settings.Rank = "none"
	settings.Cache.TFIDFSize = 128

	require.NoError(t, Save(dir, settings))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettings_RankMode_FallsBackToTFIDFOnUnrecognized(t *testing.T) {
	settings := Default()
	settings.Rank = "bogus"
	assert.Equal(t, domain.RankTFIDF, settings.RankMode())
}

func TestSettings_RankMode_HonorsRecognizedValues(t *testing.T) {
	settings := Default()
	settings.Rank = "hybrid"
	assert.Equal(t, domain.RankHybrid, settings.RankMode())
}

func TestSettings_HybridOptionsAndFuzzyOptionsConvert(t *testing.T) {
	settings := Default()
	assert.Equal(t, domain.DefaultHybridOptions(), settings.HybridOptions())
	assert.Equal(t, domain.DefaultFuzzyOptions(), settings.FuzzyOptions())
}
