package repository

import (
	"context"
	"testing"
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *LedgerStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := NewLedgerStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedAccount(t *testing.T, s *LedgerStore) models.BankAccount {
	t.Helper()
	acc := models.BankAccount{AccountName: "Operating", BankName: "Westpac"}
	require.NoError(t, s.CreateBankAccount(context.Background(), &acc))
	return acc
}

func seedBank(t *testing.T, s *LedgerStore, accountID uuid.UUID, d, desc, amount string) models.BankTransaction {
	t.Helper()
	tx := models.BankTransaction{
		ID:              uuid.New(),
		BankAccountID:   accountID,
		TransactionDate: date(d),
		Description:     desc,
		Amount:          decimal.RequireFromString(amount),
	}
	require.NoError(t, s.DB().Create(&tx).Error)
	return tx
}

func seedRecorded(t *testing.T, s *LedgerStore, d, desc, amount string) models.RecordedTransaction {
	t.Helper()
	tx := models.RecordedTransaction{
		TransactionDate: date(d),
		Description:     desc,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: models.TransactionTypeExpense,
	}
	require.NoError(t, s.CreateRecordedTransaction(context.Background(), &tx))
	return tx
}

func decision(bankID, recordedID uuid.UUID) models.MatchDecision {
	return models.MatchDecision{
		BankTransactionID:     bankID,
		RecordedTransactionID: recordedID,
		Confidence:            1,
		Reason:                "Amount match Date match",
		Action:                models.MatchActionAccepted,
		PerformedBy:           "tester",
		DecidedAt:             time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC),
	}
}

func TestLedgerStore_MarkReconciled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	bank := seedBank(t, s, acc.ID, "2024-03-10", "OFFICE SUPPLIES LTD", "-500.00")
	rec := seedRecorded(t, s, "2024-03-11", "Office Supplies Ltd invoice #42", "500.00")

	require.NoError(t, s.MarkReconciled(ctx, decision(bank.ID, rec.ID)))

	gotBank, err := s.bank.GetByID(ctx, bank.ID)
	require.NoError(t, err)
	assert.True(t, gotBank.IsReconciled)
	require.NotNil(t, gotBank.MatchedTransactionID)
	assert.Equal(t, rec.ID, *gotBank.MatchedTransactionID)

	gotRec, err := s.recorded.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, gotRec.ReconciledAt)
	assert.Equal(t, models.RecordedStatusReconciled, gotRec.Status)

	unreconciled, err := s.GetUnreconciledBankTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, unreconciled)

	logs, err := s.AuditLog(ctx, bank.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.MatchActionAccepted, logs[0].Action)
	assert.Equal(t, rec.ID, logs[0].RecordedTransactionID)
	assert.Equal(t, "tester", logs[0].PerformedBy)
}

func TestLedgerStore_MarkReconciled_Twice(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	bank := seedBank(t, s, acc.ID, "2024-03-10", "RENT", "-1200.00")
	rec := seedRecorded(t, s, "2024-03-10", "Rent March", "1200.00")

	require.NoError(t, s.MarkReconciled(ctx, decision(bank.ID, rec.ID)))

	err := s.MarkReconciled(ctx, decision(bank.ID, rec.ID))
	assert.ErrorIs(t, err, ErrAlreadyReconciled)

	logs, err := s.AuditLog(ctx, bank.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestLedgerStore_MarkReconciled_RecordedSideTakenRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	first := seedBank(t, s, acc.ID, "2024-03-10", "RENT", "-1200.00")
	second := seedBank(t, s, acc.ID, "2024-03-11", "RENT", "-1200.00")
	rec := seedRecorded(t, s, "2024-03-10", "Rent March", "1200.00")

	require.NoError(t, s.MarkReconciled(ctx, decision(first.ID, rec.ID)))

	err := s.MarkReconciled(ctx, decision(second.ID, rec.ID))
	assert.ErrorIs(t, err, ErrAlreadyReconciled)

	got, err := s.bank.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, got.IsReconciled)
	assert.Nil(t, got.MatchedTransactionID)

	logs, err := s.AuditLog(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLedgerStore_MarkReconciled_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	bank := seedBank(t, s, acc.ID, "2024-03-10", "RENT", "-1200.00")
	rec := seedRecorded(t, s, "2024-03-10", "Rent March", "1200.00")

	tests := []struct {
		name       string
		bankID     uuid.UUID
		recordedID uuid.UUID
	}{
		{"unknown bank row", uuid.New(), rec.ID},
		{"unknown recorded row", bank.ID, uuid.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.MarkReconciled(ctx, decision(tt.bankID, tt.recordedID))
			assert.ErrorIs(t, err, ErrRecordNotFound)
		})
	}

	got, err := s.bank.GetByID(ctx, bank.ID)
	require.NoError(t, err)
	assert.False(t, got.IsReconciled, "failed accept must not leave a half-reconciled pair")
}

func TestLedgerStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	other := seedAccount(t, s)
	older := seedBank(t, s, acc.ID, "2024-03-01", "Coffee Beans", "-20.00")
	newer := seedBank(t, s, acc.ID, "2024-03-20", "Office Chairs", "-300.00")
	foreign := seedBank(t, s, other.ID, "2024-03-15", "Office Rent", "-900.00")

	all, err := s.ListBankTransactions(ctx, BankTransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")
	assert.Equal(t, older.ID, all[2].ID)
	require.NotNil(t, all[0].BankAccount)
	assert.Equal(t, "Westpac", all[0].BankAccount.BankName)

	byAccount, err := s.ListBankTransactions(ctx, BankTransactionFilter{BankAccountID: &other.ID})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, foreign.ID, byAccount[0].ID)

	search, err := s.ListBankTransactions(ctx, BankTransactionFilter{Search: "OFFICE"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	from := date("2024-03-10")
	to := date("2024-03-16")
	window, err := s.ListBankTransactions(ctx, BankTransactionFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, foreign.ID, window[0].ID)

	limited, err := s.ListBankTransactions(ctx, BankTransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLedgerStore_UnreconciledRecorded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	bank := seedBank(t, s, acc.ID, "2024-03-10", "RENT", "-1200.00")
	done := seedRecorded(t, s, "2024-03-10", "Rent March", "1200.00")
	open := seedRecorded(t, s, "2024-03-12", "Printer toner", "85.50")

	require.NoError(t, s.MarkReconciled(ctx, decision(bank.ID, done.ID)))

	got, err := s.GetUnreconciledRecordedTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
	assert.True(t, decimal.RequireFromString("85.50").Equal(got[0].Amount))
}

func TestLedgerStore_ImportBankTransactions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)

	rows := []models.BankTransaction{
		{TransactionDate: date("2024-03-10"), Description: "Deposit", Amount: decimal.RequireFromString("250.00")},
		{TransactionDate: date("2024-03-11"), Description: "Card fee", Amount: decimal.RequireFromString("-4.50")},
	}
	batch := models.ImportBatch{BankAccountID: acc.ID, Source: "statement.csv", TotalRows: 3, SkippedCount: 1}

	require.NoError(t, s.ImportBankTransactions(ctx, &batch, rows))

	assert.NotEqual(t, uuid.Nil, batch.ID)
	assert.Equal(t, 2, batch.ImportedCount)
	assert.Equal(t, models.ImportStatusCompleted, batch.Status)
	assert.NotNil(t, batch.CompletedAt)

	got, err := s.GetUnreconciledBankTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, tx := range got {
		assert.Equal(t, acc.ID, tx.BankAccountID)
		require.NotNil(t, tx.ImportBatchID)
		assert.Equal(t, batch.ID, *tx.ImportBatchID)
	}
}

func TestLedgerStore_ImportUnknownAccount(t *testing.T) {
	s := newTestStore(t)
	batch := models.ImportBatch{BankAccountID: uuid.New()}

	err := s.ImportBankTransactions(context.Background(), &batch, []models.BankTransaction{
		{TransactionDate: date("2024-03-10"), Description: "Deposit", Amount: decimal.RequireFromString("1.00")},
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got, err := s.GetUnreconciledBankTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLedgerStore_ImportDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	existing := seedBank(t, s, acc.ID, "2024-03-10", "Deposit", "250.00")

	batch := models.ImportBatch{BankAccountID: acc.ID}
	err := s.ImportBankTransactions(ctx, &batch, []models.BankTransaction{
		{ID: existing.ID, TransactionDate: date("2024-03-11"), Description: "Deposit again", Amount: decimal.RequireFromString("250.00")},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyReconciled)

	got, err := s.GetUnreconciledBankTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLedgerStore_ReconciliationStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc := seedAccount(t, s)
	bank := seedBank(t, s, acc.ID, "2024-03-10", "RENT", "-1200.00")
	seedBank(t, s, acc.ID, "2024-03-11", "Deposit", "300.00")
	seedBank(t, s, acc.ID, "2024-03-12", "Deposit", "200.00")
	rec := seedRecorded(t, s, "2024-03-10", "Rent March", "1200.00")
	require.NoError(t, s.MarkReconciled(ctx, decision(bank.ID, rec.ID)))

	rows, err := s.ReconciliationStats(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byState := map[bool]models.StatRow{}
	for _, r := range rows {
		byState[r.IsReconciled] = r
	}
	assert.Equal(t, int64(1), byState[true].Count)
	assert.True(t, decimal.NewFromInt(-1200).Equal(byState[true].Sum))
	assert.Equal(t, int64(2), byState[false].Count)
	assert.True(t, decimal.NewFromInt(500).Equal(byState[false].Sum))
}
