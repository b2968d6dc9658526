package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every input validation failure.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is the parent of every missing-entity failure.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps unexpected datastore failures.
	ErrPersistence = errors.New("persistence error")

	// Account errors
	ErrAccountNotFound    = fmt.Errorf("%w: account", ErrNotFound)
	ErrDuplicateName      = errors.New("account name already exists under this parent")
	ErrAccountInUse       = errors.New("account has postings or child accounts")
	ErrInvalidLevel       = fmt.Errorf("%w: level must be 1, 2 or 3", ErrValidation)
	ErrInvalidAccountType = fmt.Errorf("%w: unknown account type", ErrValidation)
	ErrInvalidBalanceType = fmt.Errorf("%w: balance type must be DEBIT or CREDIT", ErrValidation)
	ErrInvalidParent      = fmt.Errorf("%w: parent must be one level above", ErrValidation)
	ErrInvalidAccount     = fmt.Errorf("%w: account does not resolve", ErrValidation)

	// Posting errors
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidEntryType   = fmt.Errorf("%w: entry type must be DEBIT or CREDIT", ErrValidation)
	ErrSameAccount        = fmt.Errorf("%w: cannot transfer to same account", ErrValidation)
	ErrMissingReference   = fmt.Errorf("%w: reference number is required", ErrValidation)
	ErrInvalidDateRange   = fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	ErrInvalidPaymentType = fmt.Errorf("%w: unknown payment type", ErrValidation)
	ErrInvalidPostingKind = fmt.Errorf("%w: unknown posting kind", ErrValidation)
	ErrDuplicateReference = errors.New("reference number is already posted")

	// Subledger errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBackdatedEntry      = fmt.Errorf("%w: entry is dated before the latest subledger row", ErrValidation)
	ErrInvalidPaymentMode  = fmt.Errorf("%w: unknown payment mode", ErrValidation)
	ErrInvalidInstrument   = fmt.Errorf("%w: unknown instrument kind", ErrValidation)
	ErrInvalidSourceType   = fmt.Errorf("%w: source type must be CASH, BANK, EXPENSE or PAYMENT", ErrValidation)
	ErrBankAccountRequired = fmt.Errorf("%w: bank account is required for bank settlement", ErrValidation)
	ErrBankAccountNotFound = fmt.Errorf("%w: bank account", ErrNotFound)
	ErrCashBookNotFound    = fmt.Errorf("%w: cash book", ErrNotFound)
)

// Outcome tells a caller whether a failed operation left state untouched.
type Outcome string

const (
	OutcomeNothingChanged  Outcome = "nothing_changed"
	OutcomeInternalFailure Outcome = "internal_failure"
)

// Classify maps an error onto the caller-visible outcome.
func Classify(err error) Outcome {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrAccountInUse),
		errors.Is(err, ErrDuplicateReference),
		errors.Is(err, ErrInsufficientBalance):
		return OutcomeNothingChanged
	default:
		return OutcomeInternalFailure
	}
}
