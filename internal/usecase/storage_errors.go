package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/esports-hub/internal/domain/storage"
)

// storageErr translates store failures into use case sentinels and keeps
// the original error in the chain.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrDependencyUnavailable):
		return err
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %s: %w", ErrConflict, op, err)
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ruleErr marks a domain rule violation as invalid input on field.
func ruleErr(field string, err error) error {
	return newFieldError(field, err)
}
