package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BankAccount struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountName string    `json:"account_name"`
	BankName    string    `json:"bank_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// BankTransaction is a row from an imported bank feed. Amount is signed:
// positive for inflows, negative for outflows.
type BankTransaction struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BankAccountID        uuid.UUID       `gorm:"type:uuid;index" json:"bank_account_id"`
	BankAccount          *BankAccount    `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	ImportBatchID        *uuid.UUID      `gorm:"type:uuid;index" json:"import_batch_id,omitempty"`
	TransactionDate      time.Time       `gorm:"column:transaction_date;index" json:"date"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	BalanceAfter         decimal.Decimal `gorm:"type:numeric(14,2)" json:"balance_after"`
	IsReconciled         bool            `gorm:"index" json:"reconciled"`
	MatchedTransactionID *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"matched_transaction_id"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Direction reports "credit" for inflows and "debit" for outflows.
func (t BankTransaction) Direction() string {
	if t.Amount.IsNegative() {
		return "debit"
	}
	return "credit"
}
