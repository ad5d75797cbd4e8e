package handler

import (
	"net/http"
	"strconv"
	"time"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"
	service "bank-reconciliation-backend/internal/services/reconciliation"
	"bank-reconciliation-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	queryDateLayout = "2006-01-02"
	defaultLimit    = 100
	maxLimit        = 1000
)

func (h *ReconciliationHandler) ListBankTransactions(c *gin.Context) {
	var f repository.BankTransactionFilter
	var apiErr *utils.APIError

	if raw := c.Query("bank_account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid bank account ID"))
			return
		}
		f.BankAccountID = &id
	}
	if f.DateFrom, f.DateTo, apiErr = dateRange(c); apiErr != nil {
		utils.AbortWithAPIError(c, apiErr)
		return
	}
	if f.Limit, apiErr = limit(c); apiErr != nil {
		utils.AbortWithAPIError(c, apiErr)
		return
	}
	f.UnreconciledOnly = c.Query("unreconciled") == "true"
	f.Search = c.Query("search")

	txs, err := h.service.ListBankTransactions(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "failed to list bank transactions", err)
		return
	}
	if txs == nil {
		txs = []models.BankTransaction{}
	}
	utils.ListResponse(c, txs, len(txs))
}

func (h *ReconciliationHandler) ListRecordedTransactions(c *gin.Context) {
	var f repository.RecordedTransactionFilter
	var apiErr *utils.APIError

	if f.DateFrom, f.DateTo, apiErr = dateRange(c); apiErr != nil {
		utils.AbortWithAPIError(c, apiErr)
		return
	}
	if f.Limit, apiErr = limit(c); apiErr != nil {
		utils.AbortWithAPIError(c, apiErr)
		return
	}
	f.UnmatchedOnly = c.Query("unmatched") == "true"
	f.Search = c.Query("search")

	txs, err := h.service.ListRecordedTransactions(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "failed to list recorded transactions", err)
		return
	}
	if txs == nil {
		txs = []models.RecordedTransaction{}
	}
	utils.ListResponse(c, txs, len(txs))
}

func (h *ReconciliationHandler) CreateRecordedTransaction(c *gin.Context) {
	var payload struct {
		Date            string          `json:"date" binding:"required"` // "yyyy-mm-dd"
		Description     string          `json:"description"`
		Amount          decimal.Decimal `json:"amount"`
		TransactionType string          `json:"transaction_type" binding:"required"`
		AccountID       string          `json:"account_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
		return
	}

	date, err := time.Parse(queryDateLayout, payload.Date)
	if err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid date format, expected yyyy-mm-dd"))
		return
	}

	in := service.NewRecordedTransaction{
		Date:            date,
		Description:     payload.Description,
		Amount:          payload.Amount,
		TransactionType: models.TransactionType(payload.TransactionType),
	}
	if payload.AccountID != "" {
		id, err := uuid.Parse(payload.AccountID)
		if err != nil {
			utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid account ID"))
			return
		}
		in.AccountID = &id
	}

	tx, err := h.service.CreateRecordedTransaction(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "failed to create recorded transaction", err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, tx)
}

func (h *ReconciliationHandler) CreateBankAccount(c *gin.Context) {
	var payload struct {
		AccountName string `json:"account_name" binding:"required"`
		BankName    string `json:"bank_name"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
		return
	}

	account, err := h.service.CreateBankAccount(c.Request.Context(), payload.AccountName, payload.BankName)
	if err != nil {
		h.fail(c, "failed to create bank account", err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, account)
}

func (h *ReconciliationHandler) GetMatchHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid bank transaction ID"))
		return
	}

	logs, err := h.service.MatchHistory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to load match history", err)
		return
	}
	if logs == nil {
		logs = []models.MatchAuditLog{}
	}
	utils.ListResponse(c, logs, len(logs))
}

func (h *ReconciliationHandler) PreviewImport(c *gin.Context) {
	var payload struct {
		Rows []service.RawRow `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, h.service.PreviewImport(payload.Rows))
}

func (h *ReconciliationHandler) CommitImport(c *gin.Context) {
	var payload struct {
		BankAccountID string           `json:"bank_account_id" binding:"required"`
		Source        string           `json:"source"`
		Rows          []service.RawRow `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid payload"))
		return
	}
	accountID, err := uuid.Parse(payload.BankAccountID)
	if err != nil {
		utils.AbortWithAPIError(c, utils.NewBadRequestError("invalid bank account ID"))
		return
	}

	result, err := h.service.CommitImport(c.Request.Context(), accountID, payload.Source, payload.Rows)
	if err != nil {
		h.fail(c, "failed to import bank transactions", err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, result)
}

func dateRange(c *gin.Context) (from, to *time.Time, apiErr *utils.APIError) {
	parse := func(key string) (*time.Time, *utils.APIError) {
		raw := c.Query(key)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return nil, utils.NewBadRequestError("invalid " + key + ", expected yyyy-mm-dd")
		}
		return &t, nil
	}
	if from, apiErr = parse("date_from"); apiErr != nil {
		return nil, nil, apiErr
	}
	if to, apiErr = parse("date_to"); apiErr != nil {
		return nil, nil, apiErr
	}
	return from, to, nil
}

func limit(c *gin.Context) (int, *utils.APIError) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, utils.NewBadRequestError("limit must be a positive integer")
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}
