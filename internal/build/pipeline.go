// Package build implements the offline compiler: it turns a
// single Markdown or plain-text source file into the four-artifact
// directory contract (manifest.json, spans.jsonl, nodeMap.json,
// buildReport.json) a Reader is constructed from.
package build

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sercha-labs/docreader/internal/core/domain"
	"github.com/sercha-labs/docreader/internal/core/services"
	"github.com/sercha-labs/docreader/internal/logger"
)

// concurrentEmbedThreshold mirrors the lexical index's build
// threshold: below it, embedding every span sequentially is
// cheaper than paying for pool setup.
const concurrentEmbedThreshold = 256

// Options configures a single build run.
type Options struct {
	// Format overrides extension-based detection when non-empty.
	Format Format

	// SkipEmbeddings omits the embedding computation, producing spans
	// with no persisted vector (semantic ranking then always warns
	// and skips).
	SkipEmbeddings bool
}

// Run reads sourcePath, compiles it, and writes the four artifacts to
// outputDir. It returns the build report it wrote.
func Run(sourcePath, outputDir string, opts Options) (domain.BuildReport, error) {
	logger.Section("build")
	logger.Info("reading %s", sourcePath)

	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return domain.BuildReport{}, fmt.Errorf("read source: %w", err)
	}

	format, detection, err := detectFormat(sourcePath, opts.Format)
	if err != nil {
		return domain.BuildReport{}, err
	}
	logger.Debug("detected format %s (%s)", format, detection)

	normalized := normalizeText(string(raw))
	hash := hashSource(normalized)
	bookID := corpusID(hash)

	fragments := splitFragments(normalized, format == FormatMarkdown)
	result := buildSpansAndNodeMap(fragments, bookID)
	logger.Info("split %d spans", len(result.spans))

	if !opts.SkipEmbeddings {
		attachEmbeddings(result.spans)
		logger.Debug("attached embeddings to %d spans", len(result.spans))
	}

	manifest := buildManifest(sourcePath, normalized, result.title, len(result.spans), format, detection, time.Now())
	report := buildReport(manifest, result.spans, result.nodeMap)

	if err := writeArtifacts(outputDir, manifest, result.spans, result.nodeMap, report); err != nil {
		return domain.BuildReport{}, fmt.Errorf("write artifacts: %w", err)
	}

	logger.Info("wrote artifacts to %s", outputDir)
	return report, nil
}

// attachEmbeddings computes each span's persisted embedding in place.
// embedText is a pure function of its input, so fanning the work out
// across a pool cannot perturb the values; below the concurrency
// threshold the pool's setup cost isn't worth paying.
func attachEmbeddings(spans []domain.Span) {
	if len(spans) < concurrentEmbedThreshold {
		for i := range spans {
			spans[i].Embedding = services.EmbedText(spans[i].Text)
		}
		return
	}

	workerCount := runtime.GOMAXPROCS(0)
	if workerCount < 1 {
		workerCount = 1
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		for i := range spans {
			spans[i].Embedding = services.EmbedText(spans[i].Text)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range spans {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			spans[i].Embedding = services.EmbedText(spans[i].Text)
		})
		if submitErr != nil {
			spans[i].Embedding = services.EmbedText(spans[i].Text)
			wg.Done()
		}
	}
	wg.Wait()
}
