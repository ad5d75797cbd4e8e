package main

import (
	"fmt"

	"bank-reconciliation-backend/internal/services/matching"

	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List suggested matches",
		Long: `Score every unreconciled bank line against every unreconciled ledger entry
and print the pairs above 60% confidence. Nothing is written.`,
		RunE: runSuggest,
	}
	cmd.Flags().Bool("sort", false, "order by confidence instead of bank order")
	cmd.Flags().Float64("min", 0, "hide suggestions below this confidence")
	return cmd
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	a, err := initApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	candidates, err := a.service.GenerateSuggestedMatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to generate suggestions: %w", err)
	}

	if sorted, _ := cmd.Flags().GetBool("sort"); sorted {
		matching.SortByConfidence(candidates)
	}
	if floor, _ := cmd.Flags().GetFloat64("min"); floor > 0 {
		kept := candidates[:0]
		for _, c := range candidates {
			if c.Confidence >= floor {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), candidates)
	}
	return writeCandidates(cmd.OutOrStdout(), candidates)
}
