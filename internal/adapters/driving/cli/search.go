package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

var (
	searchLimit int
	searchRank  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the compiled corpus",
	Long: `Performs lexical (AND + phrase + fuzzy) search over the compiled corpus,
optionally scored by TF-IDF or hybrid lexical/semantic ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 means unbounded)")
	searchCmd.Flags().StringVar(&searchRank, "rank", "tfidf", "ranking mode: none|tfidf|hybrid")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	reader, err := openReader()
	if err != nil {
		return err
	}

	rank, err := parseRankMode(searchRank)
	if err != nil {
		return err
	}

	results, err := reader.Search(args[0], domain.SearchOptions{Limit: searchLimit, Rank: rank})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	bold, reset := "", ""
	if term.IsTerminal(int(os.Stdout.Fd())) {
		bold, reset = "\x1b[1m", "\x1b[0m"
	}
	for i, r := range results {
		cmd.Printf("  [%d] %s%s%s (order %d, score %.4f)\n", i+1, bold, r.SpanID, reset, r.Order, r.Score)
	}
	return nil
}

func parseRankMode(s string) (domain.RankMode, error) {
	switch domain.RankMode(s) {
	case "", domain.RankNone:
		return domain.RankNone, nil
	case domain.RankTFIDF:
		return domain.RankTFIDF, nil
	case domain.RankHybrid:
		return domain.RankHybrid, nil
	default:
		return "", fmt.Errorf("unrecognized --rank %q: expected none, tfidf, or hybrid", s)
	}
}
