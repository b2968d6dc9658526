package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the side a posting lands on.
type EntryType string

const (
	EntryTypeCredit EntryType = "CREDIT"
	EntryTypeDebit  EntryType = "DEBIT"
)

// Valid reports whether t is CREDIT or DEBIT.
func (t EntryType) Valid() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}

// Opposite returns the other side.
func (t EntryType) Opposite() EntryType {
	if t == EntryTypeCredit {
		return EntryTypeDebit
	}
	return EntryTypeCredit
}

// Signed returns amount with the ledger sign convention: credits positive,
// debits negative.
func (t EntryType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == EntryTypeDebit {
		return amount.Neg()
	}
	return amount
}

// PostingKind records which business event produced a ledger row.
type PostingKind string

const (
	PostingKindOpening     PostingKind = "OPENING"
	PostingKindPayment     PostingKind = "PAYMENT"
	PostingKindExpense     PostingKind = "EXPENSE"
	PostingKindLongVoucher PostingKind = "LONG_VOUCHER"
	PostingKindPurchase    PostingKind = "PURCHASE"
	PostingKindSale        PostingKind = "SALE"
	PostingKindReturn      PostingKind = "RETURN"
	PostingKindAdjustment  PostingKind = "ADJUSTMENT"
)

// Valid reports whether k is a known posting kind.
func (k PostingKind) Valid() bool {
	switch k {
	case PostingKindOpening, PostingKindPayment, PostingKindExpense, PostingKindLongVoucher,
		PostingKindPurchase, PostingKindSale, PostingKindReturn, PostingKindAdjustment:
		return true
	}
	return false
}

// ItemDetail is provenance for goods postings. It never enters balance math.
type ItemDetail struct {
	Name         string
	Unit         string
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
}

// Transaction is one append-only ledger row.
type Transaction struct {
	ID              string
	AccountID       string
	ReferenceNo     string
	Description     string
	EntryType       EntryType
	Kind            PostingKind
	Amount          decimal.Decimal
	OpeningAmount   decimal.Decimal
	Item            *ItemDetail
	IsOpening       bool
	TransactionDate time.Time
	CreatedAt       time.Time
}

// Signed returns the row's contribution to a balance.
func (t *Transaction) Signed() decimal.Decimal {
	return t.EntryType.Signed(t.Amount)
}

// Validate checks a row before it is written.
func (t *Transaction) Validate() error {
	if t.AccountID == "" {
		return ErrInvalidAccount
	}
	if !t.EntryType.Valid() {
		return ErrInvalidEntryType
	}
	if t.ReferenceNo == "" {
		return ErrMissingReference
	}
	if t.IsOpening {
		if !t.Amount.IsZero() {
			return ErrInvalidAmount
		}
		return nil
	}
	return ValidateAmount(t.Amount)
}

// OpeningReference is the reference number of an account's seed row.
func OpeningReference(accountID string) string {
	return "OB-" + accountID
}

// NewOpeningTransaction builds the zero-amount seed row that records an
// account's opening balance in the ledger.
func NewOpeningTransaction(id string, account *Account, at time.Time) *Transaction {
	return &Transaction{
		ID:              id,
		AccountID:       account.ID,
		ReferenceNo:     OpeningReference(account.ID),
		Description:     "Opening balance",
		EntryType:       EntryType(account.BalanceType),
		Kind:            PostingKindOpening,
		Amount:          decimal.Zero,
		OpeningAmount:   account.OpeningBalance,
		IsOpening:       true,
		TransactionDate: at,
		CreatedAt:       at,
	}
}

// TransferKinds are the posting kinds that always write a double-entry pair.
var TransferKinds = []PostingKind{PostingKindLongVoucher, PostingKindPurchase, PostingKindSale, PostingKindReturn}

// IsTransfer reports whether k always writes a double-entry pair.
func (k PostingKind) IsTransfer() bool {
	for _, t := range TransferKinds {
		if k == t {
			return true
		}
	}
	return false
}

// ReferenceImbalance is a transfer reference whose rows are not one equal
// and opposite pair.
type ReferenceImbalance struct {
	ReferenceNo string
	Rows        int
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}
