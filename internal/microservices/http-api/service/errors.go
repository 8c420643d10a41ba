package service

import (
	"errors"
	"fmt"

	"libmanage/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Outcome kinds surfaced to callers. Handlers switch on these with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("no copies available")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("concurrent update conflict, try again")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError lists rejected input fields. It matches ErrInvalidState.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidState
}

// translate maps repository and gorm errors onto the service outcome kinds.
// Errors it does not recognise are returned unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, repository.ErrNoOpenBorrowing):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrUnavailable):
		return ErrUnavailable
	case errors.Is(err, repository.ErrReservationNotAllowed),
		errors.Is(err, repository.ErrQuantityBelowOnLoan),
		errors.Is(err, repository.ErrCategoryCycle),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	case errors.Is(err, repository.ErrNotOwner):
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case errors.Is(err, repository.ErrTxConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
