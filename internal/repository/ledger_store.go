package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const importInsertBatchSize = 500

// LedgerStore is the gorm-backed store the reconciliation service reads and
// writes through.
type LedgerStore struct {
	db       *gorm.DB
	bank     *BankTransactionRepository
	recorded *RecordedTransactionRepository
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{
		db:       db,
		bank:     NewBankTransactionRepository(db),
		recorded: NewRecordedTransactionRepository(db),
	}
}

func (s *LedgerStore) DB() *gorm.DB {
	return s.db
}

// AutoMigrate creates or updates every table the store touches.
func (s *LedgerStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.BankAccount{},
		&models.Account{},
		&models.ImportBatch{},
		&models.BankTransaction{},
		&models.RecordedTransaction{},
		&models.MatchAuditLog{},
	)
}

func (s *LedgerStore) GetUnreconciledBankTransactions(ctx context.Context) ([]models.BankTransaction, error) {
	return s.bank.ListUnreconciled(ctx)
}

func (s *LedgerStore) GetUnreconciledRecordedTransactions(ctx context.Context) ([]models.RecordedTransaction, error) {
	return s.recorded.ListUnreconciled(ctx)
}

func (s *LedgerStore) ListBankTransactions(ctx context.Context, f BankTransactionFilter) ([]models.BankTransaction, error) {
	return s.bank.List(ctx, f)
}

func (s *LedgerStore) ListRecordedTransactions(ctx context.Context, f RecordedTransactionFilter) ([]models.RecordedTransaction, error) {
	return s.recorded.List(ctx, f)
}

func (s *LedgerStore) CreateRecordedTransaction(ctx context.Context, tx *models.RecordedTransaction) error {
	return s.recorded.Create(ctx, tx)
}

func (s *LedgerStore) CreateBankAccount(ctx context.Context, account *models.BankAccount) error {
	return s.bank.CreateAccount(ctx, account)
}

func (s *LedgerStore) ReconciliationStats(ctx context.Context) ([]models.StatRow, error) {
	return s.bank.Stats(ctx)
}

// MarkReconciled links a bank row to a recorded row and writes the audit entry
// in one transaction. Either side already reconciled yields
// ErrAlreadyReconciled and nothing is written.
func (s *LedgerStore) MarkReconciled(ctx context.Context, d models.MatchDecision) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RecordedTransaction{}).
			Where("id = ? AND reconciled_at IS NULL", d.RecordedTransactionID).
			Updates(map[string]interface{}{
				"reconciled_at": d.DecidedAt,
				"status":        models.RecordedStatusReconciled,
				"updated_at":    d.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := NewRecordedTransactionRepository(tx).GetByID(ctx, d.RecordedTransactionID); err != nil {
				return fmt.Errorf("recorded transaction %s: %w", d.RecordedTransactionID, err)
			}
			return fmt.Errorf("%w: recorded transaction %s", ErrAlreadyReconciled, d.RecordedTransactionID)
		}

		res = tx.Model(&models.BankTransaction{}).
			Where("id = ? AND is_reconciled = ?", d.BankTransactionID, false).
			Updates(map[string]interface{}{
				"is_reconciled":          true,
				"matched_transaction_id": d.RecordedTransactionID,
				"updated_at":             d.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := NewBankTransactionRepository(tx).GetByID(ctx, d.BankTransactionID); err != nil {
				return fmt.Errorf("bank transaction %s: %w", d.BankTransactionID, err)
			}
			return fmt.Errorf("%w: bank transaction %s", ErrAlreadyReconciled, d.BankTransactionID)
		}

		details, err := json.Marshal(map[string]interface{}{
			"bank_transaction_id":     d.BankTransactionID.String(),
			"recorded_transaction_id": d.RecordedTransactionID.String(),
			"confidence":              d.Confidence,
			"reason":                  d.Reason,
			"decided_at":              d.DecidedAt.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}

		return tx.Create(&models.MatchAuditLog{
			ID:                    uuid.New(),
			BankTransactionID:     d.BankTransactionID,
			RecordedTransactionID: d.RecordedTransactionID,
			Action:                d.Action,
			Confidence:            d.Confidence,
			Reason:                d.Reason,
			PerformedBy:           d.PerformedBy,
			Details:               datatypes.JSON(details),
			CreatedAt:             d.DecidedAt,
		}).Error
	})
	return classifyReconcile(err)
}

// ImportBankTransactions stores validated bank rows under a new import batch.
// The batch is filled in with its id, timing and imported count.
func (s *LedgerStore) ImportBankTransactions(ctx context.Context, batch *models.ImportBatch, txs []models.BankTransaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.BankAccount
		if err := tx.First(&account, "id = ?", batch.BankAccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: bank account %s", ErrRecordNotFound, batch.BankAccountID)
			}
			return err
		}

		now := time.Now()
		batch.ID = uuid.New()
		batch.Status = models.ImportStatusProcessing
		batch.StartedAt = now
		if err := tx.Create(batch).Error; err != nil {
			return err
		}

		for i := range txs {
			if txs[i].ID == uuid.Nil {
				txs[i].ID = uuid.New()
			}
			txs[i].BankAccountID = batch.BankAccountID
			txs[i].ImportBatchID = &batch.ID
			txs[i].IsReconciled = false
			txs[i].MatchedTransactionID = nil
			txs[i].CreatedAt = now
			txs[i].UpdatedAt = now
		}
		if len(txs) > 0 {
			if err := tx.CreateInBatches(txs, importInsertBatchSize).Error; err != nil {
				return err
			}
		}

		completed := time.Now()
		batch.ImportedCount = len(txs)
		batch.Status = models.ImportStatusCompleted
		batch.CompletedAt = &completed
		return tx.Save(batch).Error
	})
	return classify(err)
}

func (s *LedgerStore) AuditLog(ctx context.Context, bankTransactionID uuid.UUID) ([]models.MatchAuditLog, error) {
	var logs []models.MatchAuditLog
	err := s.db.WithContext(ctx).
		Where("bank_transaction_id = ?", bankTransactionID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, classify(err)
}
