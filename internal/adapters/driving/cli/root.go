// Package cli wires the docreader commands: one-shot compilation of a
// source document (build) and read-only queries over an already
// compiled artifact directory (search, retrieve, prompt, report).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sercha-labs/docreader/internal/adapters/driven/fsartifacts"
	"github.com/sercha-labs/docreader/internal/config"
	"github.com/sercha-labs/docreader/internal/core/ports/driving"
	"github.com/sercha-labs/docreader/internal/core/services"
	"github.com/sercha-labs/docreader/internal/logger"
)

var version = "0.1.0"

var artifactDir string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docreader",
	Short: "Compile and query retrieval packs over a single source document",
	Long: `docreader compiles a Markdown or plain-text file into a four-artifact
directory (manifest.json, spans.jsonl, nodeMap.json, buildReport.json) and
serves deterministic search, retrieval-pack, and prompt-assembly queries
over it.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&artifactDir, "dir", ".", "artifact directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug and info logging to stderr")
	cobra.OnInitialize(func() { logger.SetVerbose(verbose) })
}

// Execute runs the root command; cmd/docreader's main delegates to it.
func Execute() error {
	return rootCmd.Execute()
}

// openReader is the swappable reader factory; commands call it rather
// than defaultOpenReader directly so tests can substitute a fake
// ReaderService without touching the filesystem.
var openReader = defaultOpenReader

// defaultOpenReader loads the artifact directory at artifactDir and
// wraps it in a Reader, configured from config.toml when present.
func defaultOpenReader() (driving.ReaderService, error) {
	artifacts, err := fsartifacts.New().Load(artifactDir)
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}

	reader := services.NewReader(artifacts)

	dir, dirErr := config.DefaultDir()
	if dirErr == nil {
		if settings, loadErr := config.Load(dir); loadErr == nil && settings.Cache.TFIDFSize > 0 {
			reader.EnableTFCache(settings.Cache.TFIDFSize)
		}
	}

	return reader, nil
}
