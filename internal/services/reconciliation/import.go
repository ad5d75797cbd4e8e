package reconciliation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RawRow is one already-split statement line as produced by a file parser.
type RawRow struct {
	Date         string `json:"date"`
	Narrative    string `json:"narrative"`
	Description  string `json:"description"`
	CreditAmount string `json:"credit_amount"`
	DebitAmount  string `json:"debit_amount"`
	Balance      string `json:"balance"`
}

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportPreview struct {
	TotalRows int                      `json:"total_rows"`
	Valid     []models.BankTransaction `json:"valid"`
	Errors    []RowError               `json:"errors"`
}

type ImportResult struct {
	BatchID       uuid.UUID  `json:"batch_id"`
	ImportedCount int        `json:"imported_count"`
	SkippedCount  int        `json:"skipped_count"`
	Errors        []RowError `json:"errors,omitempty"`
}

var statementDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	time.RFC3339,
}

// PreviewImport validates rows without touching the store. Rows are numbered
// from 1.
func (s *ReconciliationService) PreviewImport(rows []RawRow) ImportPreview {
	preview := ImportPreview{
		TotalRows: len(rows),
		Valid:     []models.BankTransaction{},
		Errors:    []RowError{},
	}

	for i, row := range rows {
		tx, err := parseRawRow(row)
		if err != nil {
			preview.Errors = append(preview.Errors, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		preview.Valid = append(preview.Valid, tx)
	}
	return preview
}

// CommitImport stores the valid rows of rows against bankAccountID and skips
// the rest.
func (s *ReconciliationService) CommitImport(ctx context.Context, bankAccountID uuid.UUID, source string, rows []RawRow) (ImportResult, error) {
	var result ImportResult

	if bankAccountID == uuid.Nil {
		return result, fmt.Errorf("%w: bank account id is required", ErrValidation)
	}

	preview := s.PreviewImport(rows)
	result.Errors = preview.Errors
	result.SkippedCount = len(preview.Errors)
	if len(preview.Valid) == 0 {
		return result, fmt.Errorf("%w: no valid rows to import", ErrValidation)
	}

	batch := &models.ImportBatch{
		BankAccountID: bankAccountID,
		Source:        source,
		TotalRows:     preview.TotalRows,
		SkippedCount:  len(preview.Errors),
	}
	if err := s.store.ImportBankTransactions(ctx, batch, preview.Valid); err != nil {
		return result, fmt.Errorf("import bank transactions: %w", err)
	}

	result.BatchID = batch.ID
	result.ImportedCount = batch.ImportedCount

	s.logger.Info("bank transactions imported",
		zap.String("batch_id", batch.ID.String()),
		zap.String("bank_account_id", bankAccountID.String()),
		zap.Int("imported", result.ImportedCount),
		zap.Int("skipped", result.SkippedCount))

	return result, nil
}

func parseRawRow(row RawRow) (models.BankTransaction, error) {
	var tx models.BankTransaction

	date, err := parseStatementDate(row.Date)
	if err != nil {
		return tx, err
	}

	desc := strings.TrimSpace(row.Narrative)
	if desc == "" {
		desc = strings.TrimSpace(row.Description)
	}
	if desc == "" {
		return tx, fmt.Errorf("description is required")
	}

	credit, err := parseAmount(row.CreditAmount)
	if err != nil {
		return tx, fmt.Errorf("invalid credit amount %q", row.CreditAmount)
	}
	debit, err := parseAmount(row.DebitAmount)
	if err != nil {
		return tx, fmt.Errorf("invalid debit amount %q", row.DebitAmount)
	}

	var amount decimal.Decimal
	switch {
	case credit.IsPositive():
		amount = credit
	case !debit.IsZero():
		amount = debit.Abs().Neg()
	default:
		return tx, fmt.Errorf("credit or debit amount is required")
	}

	balance, err := parseAmount(row.Balance)
	if err != nil {
		return tx, fmt.Errorf("invalid balance %q", row.Balance)
	}

	tx.TransactionDate = date
	tx.Description = desc
	tx.Amount = amount.Round(2)
	tx.BalanceAfter = balance.Round(2)
	return tx, nil
}

func parseStatementDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// parseAmount accepts "1,234.50", "$12.00" and blanks (zero).
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cleaned)
}
