package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bank-reconciliation-backend/internal/metrics"
	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"
	"bank-reconciliation-backend/internal/services/matching"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ManualMatchReason = "Manual match by user"

	DefaultSessionTTL = 30 * time.Minute
)

// LedgerStore is the persistence the service needs. *repository.LedgerStore
// satisfies it.
type LedgerStore interface {
	GetUnreconciledBankTransactions(ctx context.Context) ([]models.BankTransaction, error)
	GetUnreconciledRecordedTransactions(ctx context.Context) ([]models.RecordedTransaction, error)
	MarkReconciled(ctx context.Context, d models.MatchDecision) error
	ImportBankTransactions(ctx context.Context, batch *models.ImportBatch, txs []models.BankTransaction) error
	ListBankTransactions(ctx context.Context, f repository.BankTransactionFilter) ([]models.BankTransaction, error)
	ListRecordedTransactions(ctx context.Context, f repository.RecordedTransactionFilter) ([]models.RecordedTransaction, error)
	CreateRecordedTransaction(ctx context.Context, tx *models.RecordedTransaction) error
	CreateBankAccount(ctx context.Context, account *models.BankAccount) error
	ReconciliationStats(ctx context.Context) ([]models.StatRow, error)
	AuditLog(ctx context.Context, bankTransactionID uuid.UUID) ([]models.MatchAuditLog, error)
}

type ReconciliationService struct {
	store      LedgerStore
	logger     *zap.Logger
	metrics    *metrics.Recorder
	sessions   sync.Map // sessionID -> *SuggestionSet
	sessionTTL time.Duration
	now        func() time.Time
}

func NewReconciliationService(store LedgerStore, logger *zap.Logger, recorder *metrics.Recorder) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		store:      store,
		logger:     logger,
		metrics:    recorder,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
	}
}

// GenerateSuggestedMatches scores a fresh snapshot of unreconciled rows.
func (s *ReconciliationService) GenerateSuggestedMatches(ctx context.Context) ([]models.MatchCandidate, error) {
	bankTxs, err := s.store.GetUnreconciledBankTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank transactions: %w", err)
	}
	recordedTxs, err := s.store.GetUnreconciledRecordedTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recorded transactions: %w", err)
	}

	candidates := matching.Generate(bankTxs, recordedTxs)

	s.metrics.SuggestionsGenerated(len(candidates))
	s.logger.Debug("generated match suggestions",
		zap.Int("bank_transactions", len(bankTxs)),
		zap.Int("recorded_transactions", len(recordedTxs)),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}

// AcceptMatch reconciles the pair. A stale pair fails with
// repository.ErrAlreadyReconciled.
func (s *ReconciliationService) AcceptMatch(ctx context.Context, bankID, recordedID uuid.UUID) error {
	return s.commit(ctx, models.MatchDecision{
		BankTransactionID:     bankID,
		RecordedTransactionID: recordedID,
		Action:                models.MatchActionAccepted,
	})
}

// AcceptCandidate is AcceptMatch with the candidate's score kept in the audit trail.
func (s *ReconciliationService) AcceptCandidate(ctx context.Context, c models.MatchCandidate) error {
	return s.commit(ctx, models.MatchDecision{
		BankTransactionID:     c.BankTransaction.ID,
		RecordedTransactionID: c.RecordedTransaction.ID,
		Confidence:            c.Confidence,
		Reason:                c.MatchReason,
		Action:                models.MatchActionAccepted,
	})
}

// ManualMatch links a pair the user picked by hand, skipping scoring.
func (s *ReconciliationService) ManualMatch(ctx context.Context, bankID, recordedID uuid.UUID, performedBy string) error {
	return s.commit(ctx, models.MatchDecision{
		BankTransactionID:     bankID,
		RecordedTransactionID: recordedID,
		Confidence:            1.0,
		Reason:                ManualMatchReason,
		Action:                models.MatchActionManual,
		PerformedBy:           performedBy,
	})
}

func (s *ReconciliationService) commit(ctx context.Context, d models.MatchDecision) error {
	if d.BankTransactionID == uuid.Nil {
		s.metrics.AcceptFailed(KindValidation)
		return fmt.Errorf("%w: bank transaction id is required", ErrValidation)
	}
	if d.RecordedTransactionID == uuid.Nil {
		s.metrics.AcceptFailed(KindValidation)
		return fmt.Errorf("%w: recorded transaction id is required", ErrValidation)
	}

	d.DecidedAt = s.now()
	matchID := models.MatchCandidateID(d.BankTransactionID, d.RecordedTransactionID)

	if err := s.store.MarkReconciled(ctx, d); err != nil {
		kind := ErrorKind(err)
		s.metrics.AcceptFailed(kind)
		s.logger.Warn("match not accepted",
			zap.String("match_id", matchID),
			zap.String("kind", kind),
			zap.Error(err))
		return fmt.Errorf("accept %s: %w", matchID, err)
	}

	s.settleSessions(d.BankTransactionID, d.RecordedTransactionID)

	s.metrics.MatchAccepted(d.Action)
	s.logger.Info("match accepted",
		zap.String("match_id", matchID),
		zap.String("action", d.Action),
		zap.Float64("confidence", d.Confidence))
	return nil
}

type BulkFailure struct {
	MatchID string `json:"match_id"`
	Error   string `json:"error"`
}

type BulkAcceptResult struct {
	AcceptedCount int           `json:"accepted_count"`
	TotalMatches  int           `json:"total_matches"`
	Failures      []BulkFailure `json:"failures,omitempty"`
}

// BulkAcceptMatches regenerates suggestions and accepts, in generation order,
// every candidate at or above threshold. One failed accept does not stop the
// sweep; TotalMatches counts only candidates that were attempted.
func (s *ReconciliationService) BulkAcceptMatches(ctx context.Context, threshold float64) (BulkAcceptResult, error) {
	var result BulkAcceptResult

	if !(threshold >= 0 && threshold <= 1) {
		return result, fmt.Errorf("%w: threshold must be between 0 and 1, got %v", ErrValidation, threshold)
	}

	candidates, err := s.GenerateSuggestedMatches(ctx)
	if err != nil {
		return result, err
	}

	s.metrics.BulkAcceptStarted()
	floor := decimal.NewFromFloat(threshold)

	for _, c := range candidates {
		if decimal.NewFromFloat(c.Confidence).LessThan(floor) {
			continue
		}
		result.TotalMatches++

		if err := s.AcceptCandidate(ctx, c); err != nil {
			result.Failures = append(result.Failures, BulkFailure{MatchID: c.ID, Error: err.Error()})
			continue
		}
		result.AcceptedCount++
	}

	s.logger.Info("bulk accept finished",
		zap.Float64("threshold", threshold),
		zap.Int("accepted", result.AcceptedCount),
		zap.Int("attempted", result.TotalMatches))

	return result, nil
}

func (s *ReconciliationService) ListBankTransactions(ctx context.Context, f repository.BankTransactionFilter) ([]models.BankTransaction, error) {
	return s.store.ListBankTransactions(ctx, f)
}

func (s *ReconciliationService) ListRecordedTransactions(ctx context.Context, f repository.RecordedTransactionFilter) ([]models.RecordedTransaction, error) {
	return s.store.ListRecordedTransactions(ctx, f)
}

type NewRecordedTransaction struct {
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	TransactionType models.TransactionType
	AccountID       *uuid.UUID
}

func (s *ReconciliationService) CreateRecordedTransaction(ctx context.Context, in NewRecordedTransaction) (*models.RecordedTransaction, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if !in.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: transaction type must be income or expense", ErrValidation)
	}
	if in.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be non-zero", ErrValidation)
	}

	tx := &models.RecordedTransaction{
		AccountID:       in.AccountID,
		TransactionDate: in.Date,
		Description:     in.Description,
		Amount:          in.Amount.Round(2),
		TransactionType: in.TransactionType,
	}
	if err := s.store.CreateRecordedTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *ReconciliationService) CreateBankAccount(ctx context.Context, accountName, bankName string) (*models.BankAccount, error) {
	if accountName == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidation)
	}
	account := &models.BankAccount{AccountName: accountName, BankName: bankName}
	if err := s.store.CreateBankAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// MatchHistory returns the audit rows written for a bank transaction, oldest
// first.
func (s *ReconciliationService) MatchHistory(ctx context.Context, bankTransactionID uuid.UUID) ([]models.MatchAuditLog, error) {
	if bankTransactionID == uuid.Nil {
		return nil, fmt.Errorf("%w: bank transaction id is required", ErrValidation)
	}
	return s.store.AuditLog(ctx, bankTransactionID)
}

type Summary struct {
	Total             int64           `json:"total"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ReconciledCount   int64           `json:"reconciled_count"`
	ReconciledSum     decimal.Decimal `json:"reconciled_sum"`
	UnreconciledCount int64           `json:"unreconciled_count"`
	UnreconciledSum   decimal.Decimal `json:"unreconciled_sum"`
}

func (s *ReconciliationService) Summary(ctx context.Context) (Summary, error) {
	var sum Summary

	rows, err := s.store.ReconciliationStats(ctx)
	if err != nil {
		return sum, err
	}

	for _, r := range rows {
		sum.Total += r.Count
		sum.TotalAmount = sum.TotalAmount.Add(r.Sum)
		if r.IsReconciled {
			sum.ReconciledCount += r.Count
			sum.ReconciledSum = sum.ReconciledSum.Add(r.Sum)
		} else {
			sum.UnreconciledCount += r.Count
			sum.UnreconciledSum = sum.UnreconciledSum.Add(r.Sum)
		}
	}
	return sum, nil
}
