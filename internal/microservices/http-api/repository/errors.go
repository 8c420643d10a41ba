package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnavailable           = errors.New("no copies available")
	ErrNoOpenBorrowing       = errors.New("no open borrowing for this book")
	ErrReservationNotAllowed = errors.New("reservation not allowed")
	ErrQuantityBelowOnLoan   = errors.New("quantity below copies on loan")
	ErrCategoryCycle         = errors.New("category parent would create a cycle")
	ErrNotOwner              = errors.New("record belongs to another user")

	// ErrTxConflict marks a transaction that lost a race and may be retried.
	ErrTxConflict = errors.New("transaction conflict")
)

// postgres SQLSTATEs that mean "retry the whole transaction"
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// classifyTxError maps driver-level concurrency failures to ErrTxConflict.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s", ErrTxConflict, pgErr.Message)
		}
	}
	return err
}
