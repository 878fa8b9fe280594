package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

var (
	retrieveLimit     int
	retrieveNeighbors int
	retrieveExpand    string
	retrieveMaxTokens int
	retrieveRank      string
	retrieveJSON      bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search and expand hits into merged context packs",
	Long: `Runs Search and widens each hit into a context pack, either by a fixed
neighbor window or its enclosing section, merging overlapping packs and
trimming to a token budget when --max-tokens is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 5, "maximum number of packs")
	retrieveCmd.Flags().IntVar(&retrieveNeighbors, "neighbors", 1, "spans before/after each hit for neighbor expansion")
	retrieveCmd.Flags().StringVar(&retrieveExpand, "expand", "neighbors", "expansion mode: neighbors|section")
	retrieveCmd.Flags().IntVar(&retrieveMaxTokens, "max-tokens", 0, "token budget for the returned packs (0 means unbounded)")
	retrieveCmd.Flags().StringVar(&retrieveRank, "rank", "tfidf", "ranking mode: none|tfidf|hybrid")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output packs as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	reader, err := openReader()
	if err != nil {
		return err
	}

	rank, err := parseRankMode(retrieveRank)
	if err != nil {
		return err
	}

	expand, err := parseExpandMode(retrieveExpand)
	if err != nil {
		return err
	}

	packs, err := reader.Retrieve(args[0], domain.RetrievalOptions{
		Limit:           retrieveLimit,
		PerHitNeighbors: retrieveNeighbors,
		Expand:          expand,
		MaxTokens:       retrieveMaxTokens,
		Rank:            rank,
	})
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		data, err := json.MarshalIndent(packs, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(packs) == 0 {
		cmd.Println("No packs found.")
		return nil
	}

	for i, p := range packs {
		cmd.Printf("--- pack %d: %s (%d spans, %d chars) ---\n", i+1, p.PackID, p.Meta.SpanCount, p.Meta.CharCount)
		cmd.Println(p.Text)
	}
	return nil
}

func parseExpandMode(s string) (domain.ExpandMode, error) {
	switch domain.ExpandMode(s) {
	case "", domain.ExpandNeighbors:
		return domain.ExpandNeighbors, nil
	case domain.ExpandSection:
		return domain.ExpandSection, nil
	default:
		return "", fmt.Errorf("unrecognized --expand %q: expected neighbors or section", s)
	}
}
