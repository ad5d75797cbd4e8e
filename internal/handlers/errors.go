package handler

import (
	"net/http"

	service "bank-reconciliation-backend/internal/services/reconciliation"
	"bank-reconciliation-backend/internal/utils"
)

// apiError maps a service or store failure onto an HTTP status.
func apiError(err error) *utils.APIError {
	switch service.ErrorKind(err) {
	case service.KindValidation:
		return utils.NewBadRequestError(err.Error())
	case service.KindRecordNotFound:
		return &utils.APIError{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}
	case service.KindAlreadyReconciled:
		return utils.NewConflictError("ALREADY_RECONCILED", err.Error())
	case service.KindDuplicate:
		return utils.NewConflictError("DUPLICATE_RECORD", err.Error())
	case service.KindStoreUnavailable:
		return utils.NewUnavailableError("ledger store unavailable")
	default:
		return utils.NewInternalError()
	}
}
