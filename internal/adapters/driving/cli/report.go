package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the compiled corpus's build report",
	Long: `Prints the buildReport.json statistics produced at compile time:
span/chapter/section counts, length percentiles, quality warnings, and
sample spans. Fails if the artifact directory has no buildReport.json.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output the build report as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	reader, err := openReader()
	if err != nil {
		return err
	}

	report, ok := reader.GetBuildReport()
	if !ok {
		return fmt.Errorf("no buildReport.json in %s", artifactDir)
	}

	if reportJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("spans:    %d\n", report.Summary.SpanCount)
	cmd.Printf("chapters: %d\n", report.Summary.ChapterCount)
	cmd.Printf("sections: %d\n", report.Summary.SectionCount)
	cmd.Printf("length:   min=%d max=%d p50=%d p90=%d\n",
		report.LengthStats.Min, report.LengthStats.Max, report.LengthStats.P50, report.LengthStats.P90)
	cmd.Printf("warnings: %d short, %d long, %d duplicate\n",
		report.Warnings.ShortSpans, report.Warnings.LongSpans, report.Warnings.DuplicateText)
	return nil
}
