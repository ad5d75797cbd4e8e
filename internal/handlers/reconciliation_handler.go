package handler

import (
	"net/http"
	"time"

	"bank-reconciliation-backend/internal/models"
	service "bank-reconciliation-backend/internal/services/reconciliation"
	"bank-reconciliation-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader identifies the caller whose suggestion view is kept between
// requests.
const SessionHeader = "X-Session-ID"

type ReconciliationHandler struct {
	service          *service.ReconciliationService
	logger           *zap.Logger
	defaultThreshold float64
}

func NewReconciliationHandler(s *service.ReconciliationService, logger *zap.Logger, defaultThreshold float64) *ReconciliationHandler {
	return &ReconciliationHandler{service: s, logger: logger, defaultThreshold: defaultThreshold}
}

type suggestionsResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Matches     []models.MatchCandidate `json:"matches"`
	Count       int                     `json:"count"`
}

func newSuggestionsResponse(set *service.SuggestionSet) suggestionsResponse {
	matches := set.Candidates()
	if matches == nil {
		matches = []models.MatchCandidate{}
	}
	return suggestionsResponse{GeneratedAt: set.GeneratedAt(), Matches: matches, Count: len(matches)}
}

func (h *ReconciliationHandler) GetSuggestions(c *gin.Context) {
	set, err := h.service.Suggest(c.Request.Context(), c.GetHeader(SessionHeader))
	if err != nil {
		h.fail(c, "failed to generate suggestions", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, newSuggestionsResponse(set))
}

func (h *ReconciliationHandler) GetCurrentSuggestions(c *gin.Context) {
	set, ok := h.service.CurrentSuggestions(c.GetHeader(SessionHeader))
	if !ok {
		utils.AbortWithAPIError(c, utils.NewNotFoundError("suggestion session"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, newSuggestionsResponse(set))
}

func (h *ReconciliationHandler) EndSuggestionSession(c *gin.Context) {
	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		utils.AbortWithAPIError(c, utils.NewBadRequestError(SessionHeader+" header is required"))
		return
	}
	h.service.EndSession(sessionID)
	c.Status(http.StatusNoContent)
}

func (h *ReconciliationHandler) RejectSuggestion(c *gin.Context) {
	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		utils.AbortWithAPIError(c, utils.NewBadRequestError(SessionHeader+" header is required"))
		return
	}
	matchID := c.Param("matchId")
	h.service.RejectSuggestion(sessionID, matchID)

	utils.SuccessResponse(c, http.StatusOK, gin.H{"match_id": matchID, "status": models.MatchStatusRejected})
}

type matchRequest struct {
	BankTransactionID     string `json:"bank_transaction_id" binding:"required"`
	RecordedTransactionID string `json:"recorded_transaction_id" binding:"required"`
	PerformedBy           string `json:"performed_by"`
}

func (r matchRequest) ids() (uuid.UUID, uuid.UUID, *utils.APIError) {
	bankID, err := uuid.Parse(r.BankTransactionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, utils.NewBadRequestError("invalid bank transaction ID")
	}
	recordedID, err := uuid.Parse(r.RecordedTransactionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, utils.NewBadRequestError("invalid recorded transaction ID")
	}
	return bankID, recordedID, nil
}

func (h *ReconciliationHandler) AcceptMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
		return
	}
	bankID, recordedID, apiErr := req.ids()
	if apiErr != nil {
		utils.AbortWithAPIError(c, apiErr)
		return
	}

	if err := h.service.AcceptMatch(c.Request.Context(), bankID, recordedID); err != nil {
		h.fail(c, "failed to accept match", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"match_id": models.MatchCandidateID(bankID, recordedID),
		"status":   models.MatchStatusAccepted,
	})
}

func (h *ReconciliationHandler) ManualMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
		return
	}
	bankID, recordedID, apiErr := req.ids()
	if apiErr != nil {
		utils.AbortWithAPIError(c, apiErr)
		return
	}

	if err := h.service.ManualMatch(c.Request.Context(), bankID, recordedID, req.PerformedBy); err != nil {
		h.fail(c, "failed to record manual match", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"match_id": models.MatchCandidateID(bankID, recordedID),
		"status":   models.MatchStatusAccepted,
		"reason":   service.ManualMatchReason,
	})
}

func (h *ReconciliationHandler) BulkAccept(c *gin.Context) {
	var req struct {
		Threshold *float64 `json:"threshold"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
			return
		}
	}
	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	result, err := h.service.BulkAcceptMatches(c.Request.Context(), threshold)
	if err != nil {
		h.fail(c, "bulk accept failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

func (h *ReconciliationHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load summary", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, summary)
}

func (h *ReconciliationHandler) fail(c *gin.Context, msg string, err error) {
	apiErr := apiError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.Error(err))
	}
	_ = c.Error(err)
	utils.AbortWithAPIError(c, apiErr)
}
