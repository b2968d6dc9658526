package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentKind distinguishes the cash subledger from bank subledgers.
type InstrumentKind string

const (
	InstrumentCash InstrumentKind = "CASH"
	InstrumentBank InstrumentKind = "BANK"
)

// DefaultCashBookID is the cash book seeded by the initial migration.
const DefaultCashBookID = "MAIN"

// Instrument identifies one running-balance chain: the cash book or a
// single bank account.
type Instrument struct {
	Kind InstrumentKind
	ID   string
}

// CashInstrument returns the instrument for a cash book, defaulting to the
// main book.
func CashInstrument(id string) Instrument {
	if id == "" {
		id = DefaultCashBookID
	}
	return Instrument{Kind: InstrumentCash, ID: id}
}

// BankInstrument returns the instrument for a bank account.
func BankInstrument(id string) Instrument {
	return Instrument{Kind: InstrumentBank, ID: id}
}

// Key orders instruments for lock acquisition.
func (i Instrument) Key() string {
	return string(i.Kind) + ":" + i.ID
}

func (i Instrument) String() string {
	return i.Key()
}

// Validate checks the instrument kind and id.
func (i Instrument) Validate() error {
	if i.Kind != InstrumentCash && i.Kind != InstrumentBank {
		return ErrInvalidInstrument
	}
	if i.ID == "" {
		if i.Kind == InstrumentBank {
			return ErrBankAccountRequired
		}
		return ErrInvalidInstrument
	}
	return nil
}

// Origin records what produced a subledger row.
type Origin string

const (
	OriginManual   Origin = "MANUAL"
	OriginPayment  Origin = "PAYMENT"
	OriginExpense  Origin = "EXPENSE"
	OriginTransfer Origin = "TRANSFER"
)

// SubledgerEntry is one row of a cash or bank subledger. Balance is the
// instrument balance before the row and BalanceAfter the balance after it.
type SubledgerEntry struct {
	ID              int64
	Instrument      Instrument
	InstrumentName  string
	Type            EntryType
	Origin          Origin
	Reference       string
	Remarks         string
	TransferGroupID *string
	Amount          decimal.Decimal
	Balance         decimal.Decimal
	BalanceAfter    decimal.Decimal
	TransactionDate time.Time
	CreatedAt       time.Time
}

// IsLinkedLeg reports whether the row is one side of a bank/cash transfer.
func (e *SubledgerEntry) IsLinkedLeg() bool {
	return e.Origin == OriginTransfer && e.TransferGroupID != nil
}

// Chain links a new entry onto the instrument's chain. previous is the
// latest committed row, or nil when the subledger is empty. An entry dated
// earlier on the same day as previous is moved to previous's timestamp so
// it still sorts after it; an earlier day is rejected. On success
// entry.Balance and entry.BalanceAfter are set.
func (e *SubledgerEntry) Chain(previous *SubledgerEntry) error {
	if !e.Type.Valid() {
		return ErrInvalidEntryType
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}

	balance := decimal.Zero
	if previous != nil {
		if e.TransactionDate.Before(previous.TransactionDate) {
			if StartOfDay(e.TransactionDate).Before(StartOfDay(previous.TransactionDate)) {
				return ErrBackdatedEntry
			}
			e.TransactionDate = previous.TransactionDate
		}
		balance = previous.BalanceAfter
	}

	after := balance.Add(e.Type.Signed(e.Amount))
	if after.IsNegative() {
		return fmt.Errorf("%w: %s has %s, debit of %s requested",
			ErrInsufficientBalance, e.Instrument, balance.String(), e.Amount.String())
	}

	e.Balance = balance
	e.BalanceAfter = after
	return nil
}

// ChainBreak describes the first row that does not continue the chain.
type ChainBreak struct {
	EntryID  int64
	Field    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (b *ChainBreak) Error() string {
	return fmt.Sprintf("subledger row %d: %s is %s, expected %s",
		b.EntryID, b.Field, b.Actual.String(), b.Expected.String())
}

// VerifyChain checks rows ordered by (transaction_date, id) and returns the
// first break, or nil when the chain holds.
func VerifyChain(entries []*SubledgerEntry) *ChainBreak {
	expected := decimal.Zero
	for _, e := range entries {
		if !e.Balance.Equal(expected) {
			return &ChainBreak{EntryID: e.ID, Field: "balance", Expected: expected, Actual: e.Balance}
		}
		after := e.Balance.Add(e.Type.Signed(e.Amount))
		if !e.BalanceAfter.Equal(after) {
			return &ChainBreak{EntryID: e.ID, Field: "balance_after", Expected: after, Actual: e.BalanceAfter}
		}
		expected = e.BalanceAfter
	}
	return nil
}

// BankAccount is a bank instrument with its cached balance.
type BankAccount struct {
	ID             string
	Name           string
	BankName       string
	AccountNumber  string
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CashBook is a cash instrument with its cached balance.
type CashBook struct {
	ID             string
	Name           string
	CurrentBalance decimal.Decimal
	UpdatedAt      time.Time
}
