package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sercha-labs/docreader/internal/build"
)

var (
	buildFormat         string
	buildSkipEmbeddings bool
	buildJSON           bool
)

var buildCmd = &cobra.Command{
	Use:   "build [source]",
	Short: "Compile a source document into the artifact directory",
	Long: `Reads a Markdown or plain-text file, normalizes and spans it, computes
embeddings, and writes manifest.json, spans.jsonl, nodeMap.json, and
buildReport.json to --dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "explicit source format (markdown|plaintext), overrides extension detection")
	buildCmd.Flags().BoolVar(&buildSkipEmbeddings, "skip-embeddings", false, "omit per-span embeddings")
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "print the build report as JSON")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	opts := build.Options{SkipEmbeddings: buildSkipEmbeddings}
	switch buildFormat {
	case "":
	case "markdown":
		opts.Format = build.FormatMarkdown
	case "plaintext":
		opts.Format = build.FormatPlaintext
	default:
		return fmt.Errorf("unrecognized --format %q: expected markdown or plaintext", buildFormat)
	}

	report, err := build.Run(args[0], artifactDir, opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if buildJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Compiled %d spans (%d chapters, %d sections) to %s\n",
		report.Summary.SpanCount, report.Summary.ChapterCount, report.Summary.SectionCount, artifactDir)
	if report.Warnings.ShortSpans > 0 || report.Warnings.LongSpans > 0 || report.Warnings.DuplicateText > 0 {
		cmd.Printf("  warnings: %d short, %d long, %d duplicate\n",
			report.Warnings.ShortSpans, report.Warnings.LongSpans, report.Warnings.DuplicateText)
	}
	return nil
}
