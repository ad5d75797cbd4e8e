package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Operator tool for bank reconciliation",
	Long: `reconcile works directly against the reconciliation database.

It can list suggested matches, accept a single pair, sweep every suggestion
above a confidence threshold, and print the reconciliation summary. It reads
the same environment (DATABASE_URL, BULK_ACCEPT_THRESHOLD, ...) as the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().Bool("migrate", false, "run schema migrations before the command")

	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(acceptCmd())
	rootCmd.AddCommand(bulkAcceptCmd())
	rootCmd.AddCommand(summaryCmd())
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
