package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	Delete(ctx context.Context, tx Transaction, id string) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	NameExists(ctx context.Context, tx Transaction, parentID *string, name, excludeID string) (bool, error)
	CountChildren(ctx context.Context, tx Transaction, id string) (int64, error)
	// List returns accounts at level, or every account when level is 0.
	List(ctx context.Context, level int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger rows.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, row *domain.Transaction) error
	// CountPostings counts rows other than the opening seed.
	CountPostings(ctx context.Context, tx Transaction, accountID string) (int64, error)
	DeleteOpening(ctx context.Context, tx Transaction, accountID string) error
	// SumBefore returns Σ(credit) - Σ(debit) over rows dated before the given time.
	SumBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
	// MovementBetween totals rows with from <= transaction_date < to.
	MovementBetween(ctx context.Context, accountID string, from, to time.Time) (domain.Movement, error)
	// ListBetween returns rows with from <= transaction_date < to, oldest first.
	ListBetween(ctx context.Context, accountIDs []string, from, to time.Time) ([]*domain.Transaction, error)
	ListByReference(ctx context.Context, referenceNo string) ([]*domain.Transaction, error)
	// LockReference serializes postings on one reference until tx ends.
	LockReference(ctx context.Context, tx Transaction, referenceNo string) error
	ReferenceExists(ctx context.Context, tx Transaction, referenceNo string) (bool, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// UnbalancedReferences returns transfer-style references whose rows do
	// not form exactly one equal and opposite pair.
	UnbalancedReferences(ctx context.Context) ([]domain.ReferenceImbalance, error)
}

// SubledgerRepository defines data access for cash and bank subledgers.
type SubledgerRepository interface {
	// LockInstrument takes a row lock on the cash book or bank account.
	LockInstrument(ctx context.Context, tx Transaction, instrument domain.Instrument) error
	// Latest returns the newest row of the instrument, or nil when empty.
	Latest(ctx context.Context, tx Transaction, instrument domain.Instrument) (*domain.SubledgerEntry, error)
	Append(ctx context.Context, tx Transaction, entry *domain.SubledgerEntry) error
	UpdateInstrumentBalance(ctx context.Context, tx Transaction, instrument domain.Instrument, balance decimal.Decimal, updatedAt time.Time) error
	// List returns rows ordered by (transaction_date, id). Nil bounds are open.
	List(ctx context.Context, instrument domain.Instrument, from, to *time.Time) ([]*domain.SubledgerEntry, error)
	// ListByKind returns rows of every instrument of kind, with instrument names.
	ListByKind(ctx context.Context, kind domain.InstrumentKind, from, to *time.Time) ([]*domain.SubledgerEntry, error)
	CurrentBalance(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error)
	ListCashBooks(ctx context.Context) ([]*domain.CashBook, error)
}

// BankAccountRepository defines data access for bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	GetByID(ctx context.Context, id string) (*domain.BankAccount, error)
	List(ctx context.Context) ([]*domain.BankAccount, error)
}

// VoucherRepository defines data access for payment and expense vouchers.
type VoucherRepository interface {
	// LockSequence serializes voucher numbering for a prefix until tx ends.
	LockSequence(ctx context.Context, tx Transaction, prefix string) error
	// LastVoucherNo returns the highest voucher starting with prefix, or "".
	LastVoucherNo(ctx context.Context, tx Transaction, prefix string) (string, error)
	CreatePayment(ctx context.Context, tx Transaction, payment *domain.Payment) error
	CreateExpense(ctx context.Context, tx Transaction, expense *domain.Expense) error
	// ListUnsettledExpenses returns DIRECT expenses, which have no subledger leg.
	ListUnsettledExpenses(ctx context.Context, from, to *time.Time) ([]*domain.Expense, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}

// Metrics records domain counters.
type Metrics interface {
	PostingCommitted(kind domain.PostingKind, legs int)
	PostingRejected(reason string)
	SubledgerAppended(kind domain.InstrumentKind)
	BalanceComputed(level int, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) PostingCommitted(domain.PostingKind, int) {}
func (noopMetrics) PostingRejected(string) {}
func (noopMetrics) SubledgerAppended(domain.InstrumentKind) {}
func (noopMetrics) BalanceComputed(int, time.Duration) {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
