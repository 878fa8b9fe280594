package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sercha-labs/docreader/internal/core/domain"
	"github.com/sercha-labs/docreader/internal/core/services"
	"github.com/sercha-labs/docreader/internal/core/services/tiktokencounter"
)

var (
	promptLimit          int
	promptNeighbors      int
	promptExpand         string
	promptHeadroomTokens int
	promptMaxTokens      int
	promptRank           string
	promptStyle          string
	promptTiktoken       string
	promptJSON           bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt [question]",
	Short: "Retrieve context packs and assemble a grounded system/user prompt",
	Long: `Runs Retrieve for the question, then assembles a citable system/user
prompt pair from the resulting packs, trimming packs to fit --max-tokens
minus --headroom.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().IntVarP(&promptLimit, "limit", "n", 5, "maximum number of packs to retrieve")
	promptCmd.Flags().IntVar(&promptNeighbors, "neighbors", 1, "spans before/after each hit for neighbor expansion")
	promptCmd.Flags().StringVar(&promptExpand, "expand", "neighbors", "expansion mode: neighbors|section")
	promptCmd.Flags().IntVar(&promptHeadroomTokens, "headroom", 300, "tokens reserved for the question and scaffolding")
	promptCmd.Flags().IntVar(&promptMaxTokens, "max-tokens", 0, "overall prompt token ceiling (0 means unbounded)")
	promptCmd.Flags().StringVar(&promptRank, "rank", "tfidf", "ranking mode: none|tfidf|hybrid")
	promptCmd.Flags().StringVar(&promptStyle, "style", "qa", "prompt style: qa|summarize")
	promptCmd.Flags().StringVar(&promptTiktoken, "tiktoken", "", "tiktoken encoding for token accounting (e.g. cl100k_base), default is a character-count proxy")
	promptCmd.Flags().BoolVar(&promptJSON, "json", false, "output the assembled prompt as JSON")
	rootCmd.AddCommand(promptCmd)
}

// tokenCounterSetter is implemented by *services.Reader; the prompt
// command type-asserts to it rather than widening the public
// ReaderService interface for a CLI-only convenience flag.
type tokenCounterSetter interface {
	SetTokenCounter(services.TokenCounter)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	reader, err := openReader()
	if err != nil {
		return err
	}

	rank, err := parseRankMode(promptRank)
	if err != nil {
		return err
	}
	expand, err := parseExpandMode(promptExpand)
	if err != nil {
		return err
	}
	style, err := parsePromptStyle(promptStyle)
	if err != nil {
		return err
	}

	if promptTiktoken != "" {
		setter, ok := reader.(tokenCounterSetter)
		if !ok {
			return fmt.Errorf("--tiktoken requires a filesystem-backed reader")
		}
		counter, err := tiktokencounter.New(promptTiktoken)
		if err != nil {
			return err
		}
		setter.SetTokenCounter(counter)
	}

	question := args[0]

	packs, err := reader.Retrieve(question, domain.RetrievalOptions{
		Limit:           promptLimit,
		PerHitNeighbors: promptNeighbors,
		Expand:          expand,
		Rank:            rank,
	})
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	assembled, err := reader.AssemblePrompt(domain.AssembleOptions{
		Question:        question,
		Packs:           packs,
		HeadroomTokens:  promptHeadroomTokens,
		Style:           style,
		CitationStyle:   domain.CitationStyleNumeric,
		MaxPromptTokens: promptMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("assemble prompt failed: %w", err)
	}

	if promptJSON {
		data, err := json.MarshalIndent(assembled, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("=== system ===")
	cmd.Println(assembled.Prompt.System)
	cmd.Println("=== user ===")
	cmd.Println(assembled.Prompt.User)
	if len(assembled.Citations) > 0 {
		cmd.Println("=== citations ===")
		for _, c := range assembled.Citations {
			cmd.Printf("  %s -> %s\n", c.Marker, c.PackID)
		}
	}
	return nil
}

func parsePromptStyle(s string) (domain.PromptStyle, error) {
	switch domain.PromptStyle(s) {
	case "", domain.PromptStyleQA:
		return domain.PromptStyleQA, nil
	case domain.PromptStyleSummarize:
		return domain.PromptStyleSummarize, nil
	default:
		return "", fmt.Errorf("unrecognized --style %q: expected qa or summarize", s)
	}
}
