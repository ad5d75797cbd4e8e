package repository

import (
	"context"
	"strings"
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordedTransactionFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	UnmatchedOnly bool
	Search        string
	Limit         int
}

type RecordedTransactionRepository struct {
	db *gorm.DB
}

func NewRecordedTransactionRepository(db *gorm.DB) *RecordedTransactionRepository {
	return &RecordedTransactionRepository{db: db}
}

func (r *RecordedTransactionRepository) ListUnreconciled(ctx context.Context) ([]models.RecordedTransaction, error) {
	return r.List(ctx, RecordedTransactionFilter{UnmatchedOnly: true})
}

func (r *RecordedTransactionRepository) List(ctx context.Context, f RecordedTransactionFilter) ([]models.RecordedTransaction, error) {
	var txs []models.RecordedTransaction

	query := r.db.WithContext(ctx).
		Model(&models.RecordedTransaction{}).
		Preload("Account").
		Order("transaction_date DESC").
		Order("id ASC")

	if f.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("transaction_date <= ?", *f.DateTo)
	}
	if f.UnmatchedOnly {
		query = query.Where("reconciled_at IS NULL")
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

func (r *RecordedTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecordedTransaction, error) {
	var tx models.RecordedTransaction
	if err := r.db.WithContext(ctx).Preload("Account").First(&tx, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &tx, nil
}

func (r *RecordedTransactionRepository) Create(ctx context.Context, tx *models.RecordedTransaction) error {
	now := time.Now()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.Status == "" {
		tx.Status = models.RecordedStatusPosted
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now
	return classify(r.db.WithContext(ctx).Create(tx).Error)
}
