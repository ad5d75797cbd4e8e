package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrStoreUnavailable  = errors.New("ledger store unavailable")
	ErrRecordNotFound    = errors.New("record not found")
	ErrAlreadyReconciled = errors.New("transaction already reconciled")
	ErrDuplicateRecord   = errors.New("duplicate record")
)

const uniqueViolation = "23505"

// classify maps driver and gorm errors onto the store error sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrAlreadyReconciled) || errors.Is(err, ErrDuplicateRecord) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrDuplicateRecord, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %w", ErrDuplicateRecord, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

// classifyReconcile is classify for MarkReconciled, where the only unique key
// that can collide is a bank line's matched transaction.
func classifyReconcile(err error) error {
	err = classify(err)
	if errors.Is(err, ErrDuplicateRecord) && !errors.Is(err, ErrAlreadyReconciled) {
		return fmt.Errorf("%w: %w", ErrAlreadyReconciled, err)
	}
	return err
}
