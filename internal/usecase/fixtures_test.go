package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
	"github.com/iho/factoryledger/internal/usecase/mocks"
)

// ledgerEnv wires every use case to one set of in-memory repositories.
type ledgerEnv struct {
	accounts  *mocks.MockAccountRepository
	txs       *mocks.MockTransactionRepository
	ledger    *mocks.MockLedgerRepository
	subledger *mocks.MockSubledgerRepository
	banks     *mocks.MockBankAccountRepository
	vouchers  *mocks.MockVoucherRepository
	outbox    *mocks.MockOutboxRepository
	txManager *mocks.MockTransactionManager
	idGen     *mocks.MockIDGenerator
	metrics   *mocks.MockMetrics

	accountUC   *usecase.AccountUseCase
	postingUC   *usecase.PostingUseCase
	balanceUC   *usecase.BalanceUseCase
	subledgerUC *usecase.SubledgerUseCase
	bankUC      *usecase.BankAccountUseCase
	paymentUC   *usecase.PaymentUseCase
	cashFlowUC  *usecase.CashFlowUseCase
	reconUC     *usecase.ReconciliationUseCase
}

func newLedgerEnv(t *testing.T, cache usecase.Cache) *ledgerEnv {
	t.Helper()

	env := &ledgerEnv{
		accounts:  mocks.NewMockAccountRepository(),
		txs:       mocks.NewMockTransactionRepository(),
		ledger:    &mocks.MockLedgerRepository{},
		subledger: mocks.NewMockSubledgerRepository(),
		banks:     mocks.NewMockBankAccountRepository(),
		vouchers:  mocks.NewMockVoucherRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		txManager: mocks.NewMockTransactionManager(),
		idGen:     mocks.NewMockIDGenerator(),
		metrics:   mocks.NewMockMetrics(),
	}

	env.accountUC = usecase.NewAccountUseCase(env.txManager, env.accounts, env.txs, env.outbox, cache, env.idGen, time.Minute)
	env.postingUC = usecase.NewPostingUseCase(env.txManager, env.accounts, env.txs, env.outbox, cache, env.idGen, env.metrics)
	env.balanceUC = usecase.NewBalanceUseCase(env.accounts, env.txs, env.metrics, 4)
	env.subledgerUC = usecase.NewSubledgerUseCase(env.txManager, env.subledger, env.banks, env.outbox, env.idGen, env.metrics)
	env.bankUC = usecase.NewBankAccountUseCase(env.banks, env.idGen)
	env.paymentUC = usecase.NewPaymentUseCase(env.txManager, env.accounts, env.txs, env.subledger, env.vouchers, env.outbox, cache, env.idGen, env.metrics)
	env.cashFlowUC = usecase.NewCashFlowUseCase(env.subledger, env.vouchers)
	env.reconUC = usecase.NewReconciliationUseCase(env.accounts, env.txs, env.ledger, env.subledger, env.banks)
	return env
}

// chart creates Assets > Receivables > {Customer A, Customer B} and
// Expenses > Overheads > Electricity, returning the ids by name.
func (e *ledgerEnv) chart(t *testing.T) map[string]string {
	t.Helper()
	ctx := context.Background()
	ids := make(map[string]string)

	create := func(name string, level int, parent string, typ domain.AccountType, opening int64) {
		input := usecase.CreateAccountInput{
			Name:           name,
			Level:          level,
			Type:           typ,
			BalanceType:    domain.BalanceTypeDebit,
			OpeningBalance: decimal.NewFromInt(opening),
		}
		if parent != "" {
			p := ids[parent]
			input.ParentID = &p
		}
		acc, err := e.accountUC.CreateAccount(ctx, input)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids[name] = acc.ID
	}

	create("Assets", domain.LevelRoot, "", domain.AccountTypeAccount, 0)
	create("Receivables", domain.LevelGroup, "Assets", domain.AccountTypeAccount, 0)
	create("Customer A", domain.LevelLeaf, "Receivables", domain.AccountTypeCustomer, 1000)
	create("Customer B", domain.LevelLeaf, "Receivables", domain.AccountTypeCustomer, 0)
	create("Expenses", domain.LevelRoot, "", domain.AccountTypeAccount, 0)
	create("Overheads", domain.LevelGroup, "Expenses", domain.AccountTypeAccount, 0)
	create("Electricity", domain.LevelLeaf, "Overheads", domain.AccountTypeExpense, 0)
	return ids
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// bank registers a bank account with both the bank and subledger fakes.
func (e *ledgerEnv) bank(t *testing.T, name string) string {
	t.Helper()
	acc, err := e.bankUC.CreateBankAccount(context.Background(), usecase.CreateBankAccountInput{Name: name, BankName: "First Bank"})
	if err != nil {
		t.Fatalf("create bank %s: %v", name, err)
	}
	e.subledger.RegisterBank(acc.ID, acc.Name)
	return acc.ID
}
