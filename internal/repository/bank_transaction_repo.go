package repository

import (
	"context"
	"strings"
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankTransactionFilter struct {
	BankAccountID    *uuid.UUID
	DateFrom         *time.Time
	DateTo           *time.Time
	UnreconciledOnly bool
	Search           string
	Limit            int
}

type BankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: db}
}

// ListUnreconciled returns every bank row not yet matched, newest first.
func (r *BankTransactionRepository) ListUnreconciled(ctx context.Context) ([]models.BankTransaction, error) {
	return r.List(ctx, BankTransactionFilter{UnreconciledOnly: true})
}

func (r *BankTransactionRepository) List(ctx context.Context, f BankTransactionFilter) ([]models.BankTransaction, error) {
	var txs []models.BankTransaction

	query := r.db.WithContext(ctx).
		Model(&models.BankTransaction{}).
		Preload("BankAccount").
		Order("transaction_date DESC").
		Order("id ASC")

	if f.BankAccountID != nil {
		query = query.Where("bank_account_id = ?", *f.BankAccountID)
	}
	if f.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("transaction_date <= ?", *f.DateTo)
	}
	if f.UnreconciledOnly {
		query = query.Where("is_reconciled = ?", false)
	}
	if f.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	if err := query.Find(&txs).Error; err != nil {
		return nil, classify(err)
	}
	return txs, nil
}

func (r *BankTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BankTransaction, error) {
	var tx models.BankTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &tx, nil
}

// Stats groups bank rows by reconciliation state with count and amount sum.
func (r *BankTransactionRepository) Stats(ctx context.Context) ([]models.StatRow, error) {
	var rows []models.StatRow
	err := r.db.WithContext(ctx).
		Model(&models.BankTransaction{}).
		Select("is_reconciled, COUNT(*) as count, COALESCE(SUM(amount),0) as sum").
		Group("is_reconciled").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (r *BankTransactionRepository) CreateAccount(ctx context.Context, account *models.BankAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	return classify(r.db.WithContext(ctx).Create(account).Error)
}
