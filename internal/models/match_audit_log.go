package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchActionAccepted = "accepted"
	MatchActionManual   = "manual_match"
)

type MatchAuditLog struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BankTransactionID     uuid.UUID      `gorm:"type:uuid;index" json:"bank_transaction_id"`
	RecordedTransactionID uuid.UUID      `gorm:"type:uuid;index" json:"recorded_transaction_id"`
	Action                string         `json:"action"`
	Confidence            float64        `json:"confidence"`
	Reason                string         `json:"reason"`
	PerformedBy           string         `json:"performed_by,omitempty"`
	Details               datatypes.JSON `json:"details,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
}

// MatchDecision is everything the store needs to reconcile one pair.
type MatchDecision struct {
	BankTransactionID     uuid.UUID
	RecordedTransactionID uuid.UUID
	Confidence            float64
	Reason                string
	Action                string
	PerformedBy           string
	DecidedAt             time.Time
}
