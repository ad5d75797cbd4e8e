package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MatchStatus string

const (
	MatchStatusSuggested MatchStatus = "suggested"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
)

// MatchCandidate is a suggested pairing. It is computed on demand and never stored.
type MatchCandidate struct {
	ID                  string       `json:"id"`
	BankTransaction     BankSide     `json:"bank_transaction"`
	RecordedTransaction RecordedSide `json:"recorded_transaction"`
	Confidence          float64      `json:"confidence"`
	MatchReason         string       `json:"match_reason"`
	Status              MatchStatus  `json:"status"`
}

type BankSide struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
}

type RecordedSide struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Account     string          `json:"account,omitempty"`
}

func MatchCandidateID(bankID, recordedID uuid.UUID) string {
	return fmt.Sprintf("match_%s_%s", bankID, recordedID)
}

type StatRow struct {
	IsReconciled bool
	Count        int64
	Sum          decimal.Decimal
}
