package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

const (
	RecordedStatusPending    = "pending"
	RecordedStatusPosted     = "posted"
	RecordedStatusReconciled = "reconciled"
)

type Account struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountCode string    `gorm:"uniqueIndex" json:"account_code"`
	AccountName string    `json:"account_name"`
}

// RecordedTransaction is a ledger entry made by staff. Expense amounts may be
// stored unsigned; matching compares absolute values.
type RecordedTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID       *uuid.UUID      `gorm:"type:uuid;index" json:"account_id,omitempty"`
	Account         *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	TransactionDate time.Time       `gorm:"column:transaction_date;index" json:"date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	TransactionType TransactionType `gorm:"type:varchar(16)" json:"transaction_type"`
	Status          string          `gorm:"index" json:"status"`
	ReconciledAt    *time.Time      `gorm:"index" json:"reconciled_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (t RecordedTransaction) AccountName() string {
	if t.Account == nil {
		return ""
	}
	return t.Account.AccountName
}
