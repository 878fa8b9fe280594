// Package config loads the CLI's persistent defaults: rank mode,
// hybrid weights, fuzzy matching, prompt headroom, and the TF-IDF
// cache size. Settings live in a TOML file, the same format and
// directory convention the rest of the toolchain uses for local
// state.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// Settings is the typed shape of config.toml. Every field has a
// documented zero-value fallback, so a partially-populated or
// missing file is never an error.
type Settings struct {
	Rank   string `toml:"rank"`
	Hybrid Hybrid `toml:"hybrid"`
	Fuzzy  Fuzzy  `toml:"fuzzy"`
	Prompt Prompt `toml:"prompt"`
	Cache  Cache  `toml:"cache"`
}

// Hybrid mirrors domain.HybridOptions' tunables.
type Hybrid struct {
	WeightLexical  float64 `toml:"weight_lexical"`
	WeightSemantic float64 `toml:"weight_semantic"`
	Normalize      bool    `toml:"normalize"`
}

// Fuzzy mirrors domain.FuzzyOptions' tunables.
type Fuzzy struct {
	Enabled               bool `toml:"enabled"`
	MaxEdits              int  `toml:"max_edits"`
	MinTokenLen           int  `toml:"min_token_len"`
	DFThreshold           int  `toml:"df_threshold"`
	MaxCandidatesPerToken int  `toml:"max_candidates_per_token"`
}

// Prompt holds the assembler's defaults.
type Prompt struct {
	HeadroomTokens  int `toml:"headroom_tokens"`
	MaxPromptTokens int `toml:"max_prompt_tokens"`
}

// Cache holds the Reader's TF-IDF LRU cache size. Zero disables the
// cache.
type Cache struct {
	TFIDFSize int `toml:"tfidf_size"`
}

// Default returns the built-in settings, equal to the domain
// package's own defaults for every tunable it exposes.
func Default() Settings {
	hybrid := domain.DefaultHybridOptions()
	fuzzy := domain.DefaultFuzzyOptions()

	return Settings{
		Rank: string(domain.RankTFIDF),
		Hybrid: Hybrid{
			WeightLexical:  hybrid.WeightLexical,
			WeightSemantic: hybrid.WeightSemantic,
			Normalize:      hybrid.Normalize,
		},
		Fuzzy: Fuzzy{
			Enabled:               fuzzy.Enabled,
			MaxEdits:              fuzzy.MaxEdits,
			MinTokenLen:           fuzzy.MinTokenLen,
			DFThreshold:           fuzzy.DFThreshold,
			MaxCandidatesPerToken: fuzzy.MaxCandidatesPerToken,
		},
		Prompt: Prompt{
			HeadroomTokens: 300,
		},
	}
}

// DefaultDir returns ~/.docreader, the fallback config directory
// when the caller does not specify one.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docreader"), nil
}

// Load reads config.toml from dir, overlaying it onto Default().
// A missing file is not an error: Load returns the defaults
// unchanged.
func Load(dir string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return Settings{}, err
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Save writes settings to dir/config.toml, creating dir if needed.
func Save(dir string, settings Settings) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o600)
}

// HybridOptions converts the loaded hybrid settings to the domain
// type the ranker consumes.
func (s Settings) HybridOptions() domain.HybridOptions {
	return domain.HybridOptions{
		WeightLexical:  s.Hybrid.WeightLexical,
		WeightSemantic: s.Hybrid.WeightSemantic,
		Normalize:      s.Hybrid.Normalize,
	}
}

// FuzzyOptions converts the loaded fuzzy settings to the domain type
// the lexical index consumes.
func (s Settings) FuzzyOptions() domain.FuzzyOptions {
	return domain.FuzzyOptions{
		Enabled:               s.Fuzzy.Enabled,
		MaxEdits:              s.Fuzzy.MaxEdits,
		MinTokenLen:           s.Fuzzy.MinTokenLen,
		DFThreshold:           s.Fuzzy.DFThreshold,
		MaxCandidatesPerToken: s.Fuzzy.MaxCandidatesPerToken,
	}
}

// RankMode converts the loaded rank string to the domain enum,
// falling back to RankTFIDF for an empty or unrecognized value.
func (s Settings) RankMode() domain.RankMode {
	switch domain.RankMode(s.Rank) {
	case domain.RankNone, domain.RankTFIDF, domain.RankHybrid:
		return domain.RankMode(s.Rank)
	default:
		return domain.RankTFIDF
	}
}
