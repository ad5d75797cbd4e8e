package main

import (
	"fmt"
	"text/tabwriter"

	service "bank-reconciliation-backend/internal/services/reconciliation"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print reconciled and unreconciled totals",
		RunE:  runSummary,
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	a, err := initApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.service.Summary(cmd.Context())
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	return writeSummary(cmd, summary)
}

func writeSummary(cmd *cobra.Command, s service.Summary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tCOUNT\tAMOUNT\t")
	fmt.Fprintf(tw, "Reconciled\t%d\t%s\t\n", s.ReconciledCount, s.ReconciledSum.StringFixed(2))
	fmt.Fprintf(tw, "Unreconciled\t%d\t%s\t\n", s.UnreconciledCount, s.UnreconciledSum.StringFixed(2))
	fmt.Fprintf(tw, "Total\t%d\t%s\t\n", s.Total, s.TotalAmount.StringFixed(2))
	return tw.Flush()
}
