package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// onRollback registers undo on tx when tx is a *MockTransaction, so the
// in-memory repositories roll back together with it.
func onRollback(tx usecase.Transaction, undo func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.addUndo(undo)
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, level int) ([]*domain.Account, error)

	ListCalls int
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores accounts without going through a transaction.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = cloneAccount(a)
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = cloneAccount(account)
	onRollback(tx, func() {
		m.mu.Lock()
		delete(m.accounts, account.ID)
		m.mu.Unlock()
	})
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = cloneAccount(account)
	onRollback(tx, func() {
		m.mu.Lock()
		m.accounts[prev.ID] = prev
		m.mu.Unlock()
	})
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	onRollback(tx, func() {
		m.mu.Lock()
		m.accounts[id] = prev
		m.mu.Unlock()
	})
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, cloneAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	prev := acc.CurrentBalance
	acc.CurrentBalance = balance
	acc.UpdatedAt = updatedAt
	onRollback(tx, func() {
		m.mu.Lock()
		acc.CurrentBalance = prev
		m.mu.Unlock()
	})
	return nil
}

func (m *MockAccountRepository) NameExists(ctx context.Context, tx usecase.Transaction, parentID *string, name, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.ID == excludeID || !sameParent(acc.ParentID, parentID) {
			continue
		}
		if strings.EqualFold(acc.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) CountChildren(ctx context.Context, tx usecase.Transaction, id string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, acc := range m.accounts {
		if acc.ParentID != nil && *acc.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (m *MockAccountRepository) List(ctx context.Context, level int) ([]*domain.Account, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, level)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		if level == 0 || acc.Level == level {
			accounts = append(accounts, cloneAccount(acc))
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	rows []*domain.Transaction

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, row *domain.Transaction) error
	SumBeforeFunc     func(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
	LockReferenceFunc func(ctx context.Context, tx usecase.Transaction, referenceNo string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// Rows returns a snapshot of every stored row.
func (m *MockTransactionRepository) Rows() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.rows...)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, row *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, row)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	onRollback(tx, func() { m.remove(func(r *domain.Transaction) bool { return r.ID == row.ID }) })
	return nil
}

func (m *MockTransactionRepository) remove(match func(*domain.Transaction) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	m.rows = kept
}

func (m *MockTransactionRepository) CountPostings(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.rows {
		if r.AccountID == accountID && !r.IsOpening {
			n++
		}
	}
	return n, nil
}

func (m *MockTransactionRepository) DeleteOpening(ctx context.Context, tx usecase.Transaction, accountID string) error {
	m.remove(func(r *domain.Transaction) bool { return r.AccountID == accountID && r.IsOpening })
	return nil
}

func (m *MockTransactionRepository) SumBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	if m.SumBeforeFunc != nil {
		return m.SumBeforeFunc(ctx, accountID, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, r := range m.rows {
		if r.AccountID == accountID && r.TransactionDate.Before(before) {
			sum = sum.Add(r.Signed())
		}
	}
	return sum, nil
}

func (m *MockTransactionRepository) MovementBetween(ctx context.Context, accountID string, from, to time.Time) (domain.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mv := domain.Movement{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, r := range m.rows {
		if r.AccountID != accountID || r.TransactionDate.Before(from) || !r.TransactionDate.Before(to) {
			continue
		}
		if r.EntryType == domain.EntryTypeCredit {
			mv.Credit = mv.Credit.Add(r.Amount)
		} else {
			mv.Debit = mv.Debit.Add(r.Amount)
		}
	}
	return mv, nil
}

func (m *MockTransactionRepository) ListBetween(ctx context.Context, accountIDs []string, from, to time.Time) ([]*domain.Transaction, error) {
	ids := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, r := range m.rows {
		if ids[r.AccountID] && !r.TransactionDate.Before(from) && r.TransactionDate.Before(to) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactionDate.Before(out[j].TransactionDate) })
	return out, nil
}

func (m *MockTransactionRepository) ListByReference(ctx context.Context, referenceNo string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, r := range m.rows {
		if r.ReferenceNo == referenceNo {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) LockReference(ctx context.Context, tx usecase.Transaction, referenceNo string) error {
	if m.LockReferenceFunc != nil {
		return m.LockReferenceFunc(ctx, tx, referenceNo)
	}
	return nil
}

func (m *MockTransactionRepository) ReferenceExists(ctx context.Context, tx usecase.Transaction, referenceNo string) (bool, error) {
	rows, _ := m.ListByReference(ctx, referenceNo)
	return len(rows) > 0, nil
}

// MockLedgerRepository is a stub LedgerRepository.
type MockLedgerRepository struct {
	UnbalancedReferencesFunc func(ctx context.Context) ([]domain.ReferenceImbalance, error)
}

func (m *MockLedgerRepository) UnbalancedReferences(ctx context.Context) ([]domain.ReferenceImbalance, error) {
	if m.UnbalancedReferencesFunc != nil {
		return m.UnbalancedReferencesFunc(ctx)
	}
	return nil, nil
}

// MockSubledgerRepository is an in-memory SubledgerRepository. The MAIN cash
// book exists from the start; bank accounts must be registered.
type MockSubledgerRepository struct {
	mu       sync.RWMutex
	rows     map[string][]*domain.SubledgerEntry
	balances map[string]decimal.Decimal
	names    map[string]string
	nextID   int64

	AppendFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.SubledgerEntry) error
}

func NewMockSubledgerRepository() *MockSubledgerRepository {
	main := domain.CashInstrument("")
	return &MockSubledgerRepository{
		rows:     make(map[string][]*domain.SubledgerEntry),
		balances: map[string]decimal.Decimal{main.Key(): decimal.Zero},
		names:    map[string]string{main.Key(): "Main Cash"},
	}
}

// RegisterBank makes a bank account known to the subledger.
func (m *MockSubledgerRepository) RegisterBank(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.BankInstrument(id).Key()
	m.balances[key] = decimal.Zero
	m.names[key] = name
}

// SetBalance overwrites a cached instrument balance.
func (m *MockSubledgerRepository) SetBalance(instrument domain.Instrument, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[instrument.Key()] = balance
}

func (m *MockSubledgerRepository) LockInstrument(ctx context.Context, tx usecase.Transaction, instrument domain.Instrument) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.balances[instrument.Key()]; !ok {
		if instrument.Kind == domain.InstrumentBank {
			return domain.ErrBankAccountNotFound
		}
		return domain.ErrCashBookNotFound
	}
	return nil
}

func (m *MockSubledgerRepository) Latest(ctx context.Context, tx usecase.Transaction, instrument domain.Instrument) (*domain.SubledgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := chainOrder(m.rows[instrument.Key()])
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[len(rows)-1], nil
}

// chainOrder returns a copy of rows ordered by (transaction_date, id).
func chainOrder(rows []*domain.SubledgerEntry) []*domain.SubledgerEntry {
	out := append([]*domain.SubledgerEntry(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockSubledgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.SubledgerEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	key := entry.Instrument.Key()
	entry.InstrumentName = m.names[key]
	m.rows[key] = append(m.rows[key], entry)
	id := entry.ID
	onRollback(tx, func() {
		m.mu.Lock()
		kept := m.rows[key][:0]
		for _, r := range m.rows[key] {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		m.rows[key] = kept
		m.mu.Unlock()
	})
	return nil
}

func (m *MockSubledgerRepository) UpdateInstrumentBalance(ctx context.Context, tx usecase.Transaction, instrument domain.Instrument, balance decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := instrument.Key()
	prev := m.balances[key]
	m.balances[key] = balance
	onRollback(tx, func() {
		m.mu.Lock()
		m.balances[key] = prev
		m.mu.Unlock()
	})
	return nil
}

func (m *MockSubledgerRepository) List(ctx context.Context, instrument domain.Instrument, from, to *time.Time) ([]*domain.SubledgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SubledgerEntry
	for _, e := range chainOrder(m.rows[instrument.Key()]) {
		if inRange(e.TransactionDate, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockSubledgerRepository) ListByKind(ctx context.Context, kind domain.InstrumentKind, from, to *time.Time) ([]*domain.SubledgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SubledgerEntry
	for _, rows := range m.rows {
		for _, e := range rows {
			if e.Instrument.Kind == kind && inRange(e.TransactionDate, from, to) {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockSubledgerRepository) CurrentBalance(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance, ok := m.balances[instrument.Key()]
	if !ok {
		if instrument.Kind == domain.InstrumentBank {
			return decimal.Zero, domain.ErrBankAccountNotFound
		}
		return decimal.Zero, domain.ErrCashBookNotFound
	}
	return balance, nil
}

func (m *MockSubledgerRepository) ListCashBooks(ctx context.Context) ([]*domain.CashBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var books []*domain.CashBook
	for key, balance := range m.balances {
		id, ok := strings.CutPrefix(key, string(domain.InstrumentCash)+":")
		if !ok {
			continue
		}
		books = append(books, &domain.CashBook{ID: id, Name: m.names[key], CurrentBalance: balance})
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

// MockBankAccountRepository is an in-memory BankAccountRepository.
type MockBankAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.BankAccount
}

func NewMockBankAccountRepository() *MockBankAccountRepository {
	return &MockBankAccountRepository{accounts: make(map[string]*domain.BankAccount)}
}

func (m *MockBankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Name, account.Name) {
			return domain.ErrDuplicateName
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockBankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrBankAccountNotFound
}

func (m *MockBankAccountRepository) List(ctx context.Context) ([]*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.BankAccount, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MockVoucherRepository is an in-memory VoucherRepository.
type MockVoucherRepository struct {
	mu       sync.RWMutex
	payments []*domain.Payment
	expenses []*domain.Expense

	LockedPrefixes []string
}

func NewMockVoucherRepository() *MockVoucherRepository {
	return &MockVoucherRepository{}
}

// Payments returns a snapshot of the stored payments.
func (m *MockVoucherRepository) Payments() []*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Payment(nil), m.payments...)
}

// Expenses returns a snapshot of the stored expenses.
func (m *MockVoucherRepository) Expenses() []*domain.Expense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Expense(nil), m.expenses...)
}

func (m *MockVoucherRepository) LockSequence(ctx context.Context, tx usecase.Transaction, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockedPrefixes = append(m.LockedPrefixes, prefix)
	return nil
}

func (m *MockVoucherRepository) LastVoucherNo(ctx context.Context, tx usecase.Transaction, prefix string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	last := ""
	for _, p := range m.payments {
		if strings.HasPrefix(p.VoucherNo, prefix) && p.VoucherNo > last {
			last = p.VoucherNo
		}
	}
	for _, e := range m.expenses {
		if strings.HasPrefix(e.VoucherNo, prefix) && e.VoucherNo > last {
			last = e.VoucherNo
		}
	}
	return last, nil
}

func (m *MockVoucherRepository) CreatePayment(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	onRollback(tx, func() {
		m.mu.Lock()
		m.payments = m.payments[:len(m.payments)-1]
		m.mu.Unlock()
	})
	return nil
}

func (m *MockVoucherRepository) CreateExpense(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = append(m.expenses, expense)
	onRollback(tx, func() {
		m.mu.Lock()
		m.expenses = m.expenses[:len(m.expenses)-1]
		m.mu.Unlock()
	})
	return nil
}

func (m *MockVoucherRepository) ListUnsettledExpenses(ctx context.Context, from, to *time.Time) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Expense
	for _, e := range m.expenses {
		if e.Mode == domain.PaymentModeDirect && inRange(e.ExpenseDate, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns a snapshot of the stored events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.events {
			if e.ID == event.ID {
				m.events = append(m.events[:i], m.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu        sync.Mutex
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Commits   int
	Rollbacks int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{manager: m}, nil
}

// MockTransaction undoes in-memory writes on Rollback unless committed.
type MockTransaction struct {
	mu        sync.Mutex
	manager   *MockTransactionManager
	undo      []func()
	committed bool
	done      bool

	CommitFunc func(ctx context.Context) error
}

func (m *MockTransaction) addUndo(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = append(m.undo, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = true
	m.done = true
	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.Commits++
		m.manager.mu.Unlock()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	undo := m.undo
	m.undo = nil
	m.mu.Unlock()

	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.Rollbacks++
		m.manager.mu.Unlock()
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockMetrics counts domain metric calls.
type MockMetrics struct {
	mu        sync.Mutex
	Committed map[domain.PostingKind]int
	Rejected  map[string]int
	Appended  map[domain.InstrumentKind]int
	Computed  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Committed: make(map[domain.PostingKind]int),
		Rejected:  make(map[string]int),
		Appended:  make(map[domain.InstrumentKind]int),
	}
}

func (m *MockMetrics) PostingCommitted(kind domain.PostingKind, legs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed[kind]++
}

func (m *MockMetrics) PostingRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[reason]++
}

func (m *MockMetrics) SubledgerAppended(kind domain.InstrumentKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended[kind]++
}

func (m *MockMetrics) BalanceComputed(level int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Computed++
}
