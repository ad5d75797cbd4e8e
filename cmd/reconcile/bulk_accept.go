package main

import (
	"fmt"

	service "bank-reconciliation-backend/internal/services/reconciliation"

	"github.com/spf13/cobra"
)

func bulkAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk-accept",
		Short: "Accept every suggestion at or above a threshold",
		Long: `Regenerate suggestions and accept, in bank order, every pair whose
confidence is at or above --threshold. Pairs made stale by an earlier accept
in the same run are reported and skipped.`,
		RunE: runBulkAccept,
	}
	cmd.Flags().Float64("threshold", -1, "minimum confidence (default BULK_ACCEPT_THRESHOLD)")
	return cmd
}

func runBulkAccept(cmd *cobra.Command, _ []string) error {
	a, err := initApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if !cmd.Flags().Changed("threshold") {
		threshold = a.cfg.BulkAcceptThreshold
	}

	result, err := a.service.BulkAcceptMatches(cmd.Context(), threshold)
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	return writeBulkResult(cmd, threshold, result)
}

func writeBulkResult(cmd *cobra.Command, threshold float64, result service.BulkAcceptResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Accepted %d of %d matches at or above %.2f\n", result.AcceptedCount, result.TotalMatches, threshold)
	for _, f := range result.Failures {
		fmt.Fprintf(out, "  skipped %s: %s\n", f.MatchID, f.Error)
	}
	return nil
}
