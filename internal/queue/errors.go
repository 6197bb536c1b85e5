package queue

import (
	"errors"
	"fmt"

	"walkin_queue/internal/storage"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrTableConflict        = errors.New("table already has an active assignment")
	ErrEntryAlreadyAssigned = errors.New("entry already has an active table assignment")
	ErrCapacityMismatch     = errors.New("table is too small for the party")
	ErrValidation           = errors.New("validation failed")
	ErrNoEligibleEntry      = errors.New("no eligible entry for the table")
	ErrTransientStorage     = storage.ErrTransient
)

// storeErr переводит ошибки хранилища в ошибки движка.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrTableConflict):
		return fmt.Errorf("%s: %w", op, ErrTableConflict)
	case errors.Is(err, storage.ErrEntryAssigned):
		return fmt.Errorf("%s: %w", op, ErrEntryAlreadyAssigned)
	case errors.Is(err, storage.ErrActivePhone):
		return fmt.Errorf("%s: %w: phone already has an active entry", op, ErrValidation)
	case errors.Is(err, storage.ErrStaleStatus):
		return fmt.Errorf("%s: %w: entry changed concurrently", op, ErrInvalidTransition)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
