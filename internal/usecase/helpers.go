package usecase

import (
	"errors"

	"github.com/iho/factoryledger/internal/domain"
)

// rejectionReason labels a failed posting for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrInvalidAccount):
		return "invalid_account"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrAmountTooLarge):
		return "invalid_amount"
	case errors.Is(err, domain.ErrDuplicateReference):
		return "duplicate_reference"
	case errors.Is(err, domain.ErrBackdatedEntry):
		return "backdated"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
