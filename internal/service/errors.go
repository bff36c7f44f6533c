package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks errors caused by bad user input
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCount is returned for out-of-range insert/delete counts
	ErrInvalidCount = fmt.Errorf("%w: invalid count", ErrValidation)

	// ErrNothingToExport is returned by Export before the first query
	ErrNothingToExport = errors.New("nothing to export, run a query first")
)

// validationError wraps err so that errors.Is(result, ErrValidation) holds
func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
