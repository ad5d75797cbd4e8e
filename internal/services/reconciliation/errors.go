package reconciliation

import (
	"errors"

	"bank-reconciliation-backend/internal/repository"
)

// ErrValidation marks malformed input rejected before any store call.
var ErrValidation = errors.New("validation error")

const (
	KindStoreUnavailable  = "store_unavailable"
	KindRecordNotFound    = "record_not_found"
	KindAlreadyReconciled = "already_reconciled"
	KindDuplicate         = "duplicate"
	KindValidation        = "validation"
	KindUnknown           = "unknown"
)

// ErrorKind names the failure class of err for metrics and API responses.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, repository.ErrAlreadyReconciled):
		return KindAlreadyReconciled
	case errors.Is(err, repository.ErrDuplicateRecord):
		return KindDuplicate
	case errors.Is(err, repository.ErrRecordNotFound):
		return KindRecordNotFound
	case errors.Is(err, repository.ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindUnknown
	}
}
