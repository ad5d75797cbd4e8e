package matching

import (
	"sort"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
)

// MinConfidencePoints is the exclusive floor for a suggestion: 0.4+0.2 alone
// does not qualify, 0.4+0.3 does.
const MinConfidencePoints = 60

// Generate scores every unreconciled (bank, recorded) pair and returns the
// ones above MinConfidencePoints, in bank-major input order.
func Generate(bankTxs []models.BankTransaction, recordedTxs []models.RecordedTransaction) []models.MatchCandidate {
	banks := uniqueBank(bankTxs)
	recorded := uniqueRecorded(recordedTxs)

	var candidates []models.MatchCandidate
	for i := range banks {
		b := &banks[i]
		for j := range recorded {
			r := &recorded[j]

			score := ScorePair(*b, *r)
			if score.Points <= MinConfidencePoints {
				continue
			}

			candidates = append(candidates, models.MatchCandidate{
				ID:                  models.MatchCandidateID(b.ID, r.ID),
				BankTransaction:     bankSide(b),
				RecordedTransaction: recordedSide(r),
				Confidence:          score.Confidence(),
				MatchReason:         score.Reason(),
				Status:              models.MatchStatusSuggested,
			})
		}
	}
	return candidates
}

// SortByConfidence orders candidates by confidence descending, keeping
// generation order among ties.
func SortByConfidence(candidates []models.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}

// uniqueBank drops reconciled rows and repeated ids from a snapshot.
func uniqueBank(txs []models.BankTransaction) []models.BankTransaction {
	seen := make(map[uuid.UUID]struct{}, len(txs))
	out := make([]models.BankTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsReconciled || tx.MatchedTransactionID != nil {
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}
	return out
}

func uniqueRecorded(txs []models.RecordedTransaction) []models.RecordedTransaction {
	seen := make(map[uuid.UUID]struct{}, len(txs))
	out := make([]models.RecordedTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ReconciledAt != nil {
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}
	return out
}

func bankSide(tx *models.BankTransaction) models.BankSide {
	return models.BankSide{
		ID:          tx.ID,
		Date:        tx.TransactionDate,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        tx.Direction(),
		Balance:     tx.BalanceAfter,
	}
}

func recordedSide(tx *models.RecordedTransaction) models.RecordedSide {
	return models.RecordedSide{
		ID:          tx.ID,
		Date:        tx.TransactionDate,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        tx.TransactionType,
		Account:     tx.AccountName(),
	}
}
