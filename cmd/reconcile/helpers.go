package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"bank-reconciliation-backend/internal/config"
	"bank-reconciliation-backend/internal/logger"
	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"
	service "bank-reconciliation-backend/internal/services/reconciliation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg     *config.Config
	service *service.ReconciliationService
	logger  *zap.Logger
	close   func()
}

// initApp opens the database and builds the service the same way the server
// does, minus metrics.
func initApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	log, err := logger.New("reconcile-cli", cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := repository.NewLedgerStore(db)
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := store.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return &app{
		cfg:     cfg,
		service: service.NewReconciliationService(store, log, nil),
		logger:  log,
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			_ = log.Sync()
		},
	}, nil
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCandidates(w io.Writer, candidates []models.MatchCandidate) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, "No suggested matches.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONFIDENCE\tBANK DATE\tBANK DESCRIPTION\tAMOUNT\tLEDGER DATE\tLEDGER DESCRIPTION\tREASON")
	for _, c := range candidates {
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Confidence,
			c.BankTransaction.Date.Format("2006-01-02"),
			truncate(c.BankTransaction.Description, 32),
			c.BankTransaction.Amount.StringFixed(2),
			c.RecordedTransaction.Date.Format("2006-01-02"),
			truncate(c.RecordedTransaction.Description, 32),
			c.MatchReason,
		)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
