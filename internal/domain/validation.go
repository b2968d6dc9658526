package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrAmountTooSmall     = fmt.Errorf("%w: amount below minimum allowed", ErrValidation)
	ErrFieldTooLong       = fmt.Errorf("%w: field too long", ErrValidation)
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxReferenceLength   = 64
	MaxDescriptionLength = 1024
	MaxPostingAmount     = "1000000000000" // 1 trillion
	MinPostingAmount     = "0.01"
)

var (
	maxPostingAmount = decimal.RequireFromString(MaxPostingAmount)
	minPostingAmount = decimal.RequireFromString(MinPostingAmount)
)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a posting amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.LessThan(minPostingAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinPostingAmount)
	}

	if amount.GreaterThan(maxPostingAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPostingAmount)
	}

	return nil
}

// ValidateReference validates a voucher or document reference
func ValidateReference(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ErrMissingReference
	}
	if len(ref) > MaxReferenceLength {
		return fmt.Errorf("%w: reference exceeds %d characters", ErrFieldTooLong, MaxReferenceLength)
	}
	return nil
}

// ValidateDescription validates free-text descriptions and remarks
func ValidateDescription(desc string) error {
	if len(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrFieldTooLong, MaxDescriptionLength)
	}
	return nil
}
