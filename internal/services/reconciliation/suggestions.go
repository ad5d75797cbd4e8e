package reconciliation

import (
	"context"
	"sync"
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuggestionSet is one caller's current view of suggested matches.
// Rejections and accepts only change this view, never the store, so a new
// generation pass may offer a rejected pair again.
type SuggestionSet struct {
	mu          sync.Mutex
	generatedAt time.Time
	candidates  []models.MatchCandidate
}

func NewSuggestionSet(candidates []models.MatchCandidate, generatedAt time.Time) *SuggestionSet {
	return &SuggestionSet{
		generatedAt: generatedAt,
		candidates:  append([]models.MatchCandidate(nil), candidates...),
	}
}

func (s *SuggestionSet) GeneratedAt() time.Time {
	return s.generatedAt
}

func (s *SuggestionSet) Candidates() []models.MatchCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MatchCandidate(nil), s.candidates...)
}

func (s *SuggestionSet) Find(matchID string) (models.MatchCandidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.ID == matchID {
			return c, true
		}
	}
	return models.MatchCandidate{}, false
}

// Reject drops matchID. It reports whether anything was removed.
func (s *SuggestionSet) Reject(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.candidates {
		if c.ID == matchID {
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
			return true
		}
	}
	return false
}

// Settle marks the accepted pair and drops every other candidate that
// references either side, since those are now stale.
func (s *SuggestionSet) Settle(bankID, recordedID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acceptedID := models.MatchCandidateID(bankID, recordedID)
	kept := s.candidates[:0]
	for _, c := range s.candidates {
		switch {
		case c.ID == acceptedID:
			c.Status = models.MatchStatusAccepted
			kept = append(kept, c)
		case c.BankTransaction.ID == bankID, c.RecordedTransaction.ID == recordedID:
		default:
			kept = append(kept, c)
		}
	}
	s.candidates = kept
}

// RejectMatch removes a candidate from the caller's set. Repeating it is a no-op.
func (s *ReconciliationService) RejectMatch(set *SuggestionSet, matchID string) {
	if set == nil {
		return
	}
	if set.Reject(matchID) {
		s.logger.Debug("suggestion rejected", zap.String("match_id", matchID))
	}
}

// SetSessionTTL sets how long a stored suggestion view lives after it was
// generated. Non-positive values are ignored.
func (s *ReconciliationService) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		s.sessionTTL = ttl
	}
}

// Suggest generates a fresh set and keeps it as the session's current view.
func (s *ReconciliationService) Suggest(ctx context.Context, sessionID string) (*SuggestionSet, error) {
	candidates, err := s.GenerateSuggestedMatches(ctx)
	if err != nil {
		return nil, err
	}
	set := NewSuggestionSet(candidates, s.now())
	s.evictExpiredSessions()
	if sessionID != "" {
		s.sessions.Store(sessionID, set)
	}
	return set, nil
}

func (s *ReconciliationService) CurrentSuggestions(sessionID string) (*SuggestionSet, bool) {
	val, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	set := val.(*SuggestionSet)
	if s.expired(set) {
		s.sessions.CompareAndDelete(sessionID, set)
		return nil, false
	}
	return set, true
}

func (s *ReconciliationService) RejectSuggestion(sessionID, matchID string) {
	set, _ := s.CurrentSuggestions(sessionID)
	s.RejectMatch(set, matchID)
}

func (s *ReconciliationService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// settleSessions drops a reconciled pair's stale candidates from every stored
// view, whichever caller made the accept.
func (s *ReconciliationService) settleSessions(bankID, recordedID uuid.UUID) {
	s.sessions.Range(func(_, val interface{}) bool {
		val.(*SuggestionSet).Settle(bankID, recordedID)
		return true
	})
}

func (s *ReconciliationService) evictExpiredSessions() {
	evicted := 0
	s.sessions.Range(func(key, val interface{}) bool {
		if s.expired(val.(*SuggestionSet)) && s.sessions.CompareAndDelete(key, val) {
			evicted++
		}
		return true
	})
	if evicted > 0 {
		s.logger.Debug("suggestion sessions expired", zap.Int("count", evicted))
	}
}

func (s *ReconciliationService) expired(set *SuggestionSet) bool {
	return s.now().Sub(set.GeneratedAt()) > s.sessionTTL
}
