package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore keeps rows in insertion order and enforces the same conflict
// rules as the gorm store.
type fakeStore struct {
	mu        sync.Mutex
	bank      []models.BankTransaction
	recorded  []models.RecordedTransaction
	accounts  map[uuid.UUID]models.BankAccount
	decisions []models.MatchDecision
	batches   []models.ImportBatch

	listErr  error
	failMark map[uuid.UUID]error
	calls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[uuid.UUID]models.BankAccount{},
		failMark: map[uuid.UUID]error{},
	}
}

func (f *fakeStore) addBank(date, desc, amount string) models.BankTransaction {
	tx := models.BankTransaction{
		ID:              uuid.New(),
		TransactionDate: mustDate(date),
		Description:     desc,
		Amount:          decimal.RequireFromString(amount),
	}
	f.bank = append(f.bank, tx)
	return tx
}

func (f *fakeStore) addRecorded(date, desc, amount string) models.RecordedTransaction {
	tx := models.RecordedTransaction{
		ID:              uuid.New(),
		TransactionDate: mustDate(date),
		Description:     desc,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: models.TransactionTypeExpense,
		Status:          models.RecordedStatusPosted,
	}
	f.recorded = append(f.recorded, tx)
	return tx
}

func (f *fakeStore) bankByID(id uuid.UUID) *models.BankTransaction {
	for i := range f.bank {
		if f.bank[i].ID == id {
			return &f.bank[i]
		}
	}
	return nil
}

func (f *fakeStore) recordedByID(id uuid.UUID) *models.RecordedTransaction {
	for i := range f.recorded {
		if f.recorded[i].ID == id {
			return &f.recorded[i]
		}
	}
	return nil
}

func (f *fakeStore) GetUnreconciledBankTransactions(ctx context.Context) ([]models.BankTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.BankTransaction
	for _, tx := range f.bank {
		if !tx.IsReconciled {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUnreconciledRecordedTransactions(ctx context.Context) ([]models.RecordedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.RecordedTransaction
	for _, tx := range f.recorded {
		if tx.ReconciledAt == nil {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkReconciled(ctx context.Context, d models.MatchDecision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err, ok := f.failMark[d.BankTransactionID]; ok {
		return err
	}

	bank := f.bankByID(d.BankTransactionID)
	rec := f.recordedByID(d.RecordedTransactionID)
	switch {
	case bank == nil:
		return fmt.Errorf("%w: bank transaction %s", repository.ErrRecordNotFound, d.BankTransactionID)
	case rec == nil:
		return fmt.Errorf("%w: recorded transaction %s", repository.ErrRecordNotFound, d.RecordedTransactionID)
	case bank.IsReconciled:
		return fmt.Errorf("%w: bank transaction %s", repository.ErrAlreadyReconciled, bank.ID)
	case rec.ReconciledAt != nil:
		return fmt.Errorf("%w: recorded transaction %s", repository.ErrAlreadyReconciled, rec.ID)
	}

	matched := rec.ID
	at := d.DecidedAt
	bank.IsReconciled = true
	bank.MatchedTransactionID = &matched
	rec.ReconciledAt = &at
	rec.Status = models.RecordedStatusReconciled
	f.decisions = append(f.decisions, d)
	return nil
}

func (f *fakeStore) ImportBankTransactions(ctx context.Context, batch *models.ImportBatch, txs []models.BankTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[batch.BankAccountID]; !ok {
		return fmt.Errorf("%w: bank account %s", repository.ErrRecordNotFound, batch.BankAccountID)
	}
	batch.ID = uuid.New()
	batch.ImportedCount = len(txs)
	batch.Status = models.ImportStatusCompleted
	for _, tx := range txs {
		tx.ID = uuid.New()
		tx.BankAccountID = batch.BankAccountID
		f.bank = append(f.bank, tx)
	}
	f.batches = append(f.batches, *batch)
	return nil
}

func (f *fakeStore) ListBankTransactions(ctx context.Context, _ repository.BankTransactionFilter) ([]models.BankTransaction, error) {
	return append([]models.BankTransaction(nil), f.bank...), nil
}

func (f *fakeStore) ListRecordedTransactions(ctx context.Context, _ repository.RecordedTransactionFilter) ([]models.RecordedTransaction, error) {
	return append([]models.RecordedTransaction(nil), f.recorded...), nil
}

func (f *fakeStore) CreateRecordedTransaction(ctx context.Context, tx *models.RecordedTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx.ID = uuid.New()
	tx.Status = models.RecordedStatusPosted
	f.recorded = append(f.recorded, *tx)
	return nil
}

func (f *fakeStore) CreateBankAccount(ctx context.Context, account *models.BankAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account.ID = uuid.New()
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeStore) ReconciliationStats(ctx context.Context) ([]models.StatRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	byState := map[bool]*models.StatRow{}
	for _, tx := range f.bank {
		row, ok := byState[tx.IsReconciled]
		if !ok {
			row = &models.StatRow{IsReconciled: tx.IsReconciled}
			byState[tx.IsReconciled] = row
		}
		row.Count++
		row.Sum = row.Sum.Add(tx.Amount)
	}
	var rows []models.StatRow
	for _, r := range byState {
		rows = append(rows, *r)
	}
	return rows, nil
}

func (f *fakeStore) AuditLog(ctx context.Context, bankTransactionID uuid.UUID) ([]models.MatchAuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MatchAuditLog
	for _, d := range f.decisions {
		if d.BankTransactionID != bankTransactionID {
			continue
		}
		out = append(out, models.MatchAuditLog{
			ID:                    uuid.New(),
			BankTransactionID:     d.BankTransactionID,
			RecordedTransactionID: d.RecordedTransactionID,
			Action:                d.Action,
			Confidence:            d.Confidence,
			Reason:                d.Reason,
			PerformedBy:           d.PerformedBy,
			CreatedAt:             d.DecidedAt,
		})
	}
	return out, nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
