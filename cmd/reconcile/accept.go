package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func acceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <bank-transaction-id> <recorded-transaction-id>",
		Short: "Reconcile one bank line with one ledger entry",
		Long: `Mark both sides of a pair as reconciled and write an audit row.

With --manual the pair does not need to be a current suggestion and is
recorded as a manual match at full confidence.`,
		Args: cobra.ExactArgs(2),
		RunE: runAccept,
	}
	cmd.Flags().Bool("manual", false, "record as a manual match")
	cmd.Flags().String("by", "", "who made the decision (manual matches)")
	return cmd
}

func runAccept(cmd *cobra.Command, args []string) error {
	bankID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid bank transaction ID %q", args[0])
	}
	recordedID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid recorded transaction ID %q", args[1])
	}

	a, err := initApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	manual, _ := cmd.Flags().GetBool("manual")
	if manual {
		by, _ := cmd.Flags().GetString("by")
		err = a.service.ManualMatch(cmd.Context(), bankID, recordedID, by)
	} else {
		err = a.service.AcceptMatch(cmd.Context(), bankID, recordedID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %s with %s\n", bankID, recordedID)
	return nil
}
