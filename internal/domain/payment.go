package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is the direction of a payment.
type PaymentType string

const (
	PaymentReceived PaymentType = "RECEIVED"
	PaymentIssued   PaymentType = "ISSUED"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == PaymentReceived || t == PaymentIssued
}

// EntryType is the side posted to both the party account and the settling
// subledger: money received credits both, money issued debits both.
func (t PaymentType) EntryType() EntryType {
	if t == PaymentReceived {
		return EntryTypeCredit
	}
	return EntryTypeDebit
}

// VoucherPrefix returns RV for receipts and PV for issues.
func (t PaymentType) VoucherPrefix() VoucherPrefix {
	if t == PaymentReceived {
		return VoucherReceived
	}
	return VoucherIssued
}

// PaymentMode says how a payment or expense is settled.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeBank   PaymentMode = "BANK"
	PaymentModeDirect PaymentMode = "DIRECT"
)

// Instrument returns the subledger the mode settles into. DIRECT settles
// nowhere and returns false.
func (m PaymentMode) Instrument(bankAccountID string) (Instrument, bool, error) {
	switch m {
	case PaymentModeCash:
		return CashInstrument(""), true, nil
	case PaymentModeBank:
		if bankAccountID == "" {
			return Instrument{}, false, ErrBankAccountRequired
		}
		return BankInstrument(bankAccountID), true, nil
	case PaymentModeDirect:
		return Instrument{}, false, nil
	default:
		return Instrument{}, false, ErrInvalidPaymentMode
	}
}

// Payment is a receipt from or an issue to a party account.
type Payment struct {
	ID            string
	VoucherNo     string
	Type          PaymentType
	AccountID     string
	Mode          PaymentMode
	BankAccountID *string
	Description   string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	CreatedAt     time.Time
}

// Expense is an expense voucher posted against an expense account.
type Expense struct {
	ID            string
	VoucherNo     string
	AccountID     string
	Mode          PaymentMode
	BankAccountID *string
	Category      string
	Description   string
	Amount        decimal.Decimal
	ExpenseDate   time.Time
	CreatedAt     time.Time
}
