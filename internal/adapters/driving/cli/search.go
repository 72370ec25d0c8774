package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Preview retrieval for a query",
	Long: `Shows the knowledge passages a question would retrieve, most relevant first.
A passage scores one point for each query word it contains, ignoring case.
Passages that match no word are never shown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", domain.DefaultTopK, "maximum number of passages")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output passages as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}
	if searchTopK < 1 {
		return fmt.Errorf("%w: --top-k must be at least 1", domain.ErrInvalidInput)
	}

	query := strings.Join(args, " ")
	results := knowledgeService.Retrieve(cmd.Context(), query, searchTopK)

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchText(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredPassage) error {
	if results == nil {
		results = []domain.ScoredPassage{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.ScoredPassage) {
	if len(results) == 0 {
		cmd.Println("No relevant passages.")
		return
	}

	cmd.Println("Passages:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] passage #%d (score %d)\n", i+1, results[i].Position, results[i].Score)
		for _, line := range strings.Split(results[i].Text, "\n") {
			cmd.Printf("      %s\n", line)
		}
		cmd.Println()
	}
}
