package testutil

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/factoryledger/internal/adapter/http"
	"github.com/iho/factoryledger/internal/adapter/http/handler"
	"github.com/iho/factoryledger/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/factoryledger/internal/adapter/repository/redis"
	"github.com/iho/factoryledger/internal/domain"
	infrapostgres "github.com/iho/factoryledger/internal/infrastructure/postgres"
	"github.com/iho/factoryledger/internal/usecase"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL and migrates it. The test is skipped
// under -short or when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := infrapostgres.RunMigrations(dbURL, migrationsPath()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapostgres.NewPool(ctx, dbURL, 10, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	db := &TestDB{Pool: pool, t: t}
	db.TruncateAll(ctx)
	return db
}

func migrationsPath() string {
	for _, candidate := range []string{
		"internal/infrastructure/postgres/migrations",
		"../../internal/infrastructure/postgres/migrations",
		"../../../internal/infrastructure/postgres/migrations",
	} {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err == nil {
				return abs
			}
			return candidate
		}
	}
	return "internal/infrastructure/postgres/migrations"
}

// TruncateAll removes all rows and resets the seeded cash book.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE outbox_events, payments, expenses, cash_transactions, bank_transactions,
			bank_accounts, transactions, accounts CASCADE;
		UPDATE cash_books SET current_balance = 0;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Stack is every use case wired against the test database, plus the router.
type Stack struct {
	DB             *TestDB
	Redis          *miniredis.Miniredis
	RedisClient    *goredis.Client
	Outbox         *postgres.OutboxRepository
	Accounts       *usecase.AccountUseCase
	Postings       *usecase.PostingUseCase
	Balances       *usecase.BalanceUseCase
	Payments       *usecase.PaymentUseCase
	Subledgers     *usecase.SubledgerUseCase
	Banks          *usecase.BankAccountUseCase
	CashFlow       *usecase.CashFlowUseCase
	Reconciliation *usecase.ReconciliationUseCase
	Router         http.Handler
}

// NewStack wires the application the way the server does, with miniredis
// standing in for Redis.
func NewStack(t *testing.T) *Stack {
	t.Helper()

	db := NewTestDB(t)
	pool := db.Pool

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	subledgerRepo := postgres.NewSubledgerRepository(pool)
	bankRepo := postgres.NewBankAccountRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	cache := redisrepo.NewCache(client)

	s := &Stack{
		DB:             db,
		Redis:          mr,
		RedisClient:    client,
		Outbox:         outboxRepo,
		Accounts:       usecase.NewAccountUseCase(txManager, accountRepo, txRepo, outboxRepo, cache, idGen, time.Minute),
		Postings:       usecase.NewPostingUseCase(txManager, accountRepo, txRepo, outboxRepo, cache, idGen, nil),
		Balances:       usecase.NewBalanceUseCase(accountRepo, txRepo, nil, 4),
		Payments:       usecase.NewPaymentUseCase(txManager, accountRepo, txRepo, subledgerRepo, voucherRepo, outboxRepo, cache, idGen, nil),
		Subledgers:     usecase.NewSubledgerUseCase(txManager, subledgerRepo, bankRepo, outboxRepo, idGen, nil),
		Banks:          usecase.NewBankAccountUseCase(bankRepo, idGen),
		CashFlow:       usecase.NewCashFlowUseCase(subledgerRepo, voucherRepo),
		Reconciliation: usecase.NewReconciliationUseCase(accountRepo, txRepo, postgres.NewLedgerRepository(pool), subledgerRepo, bankRepo),
	}

	s.Router = adaptershttp.NewRouter(adaptershttp.RouterConfig{
		ChartHandler:     handler.NewChartHandler(s.Accounts),
		LedgerHandler:    handler.NewLedgerHandler(s.Balances, s.Postings, s.Reconciliation),
		PaymentHandler:   handler.NewPaymentHandler(s.Payments),
		SubledgerHandler: handler.NewSubledgerHandler(s.Subledgers, s.Banks),
		ReportHandler:    handler.NewReportHandler(s.CashFlow),
		HealthHandler:    handler.NewHealthHandler(handler.PostgresCheck(pool), handler.RedisCheck(client)),
		IdempotencyStore: redisrepo.NewIdempotencyStore(client),
		Logger:           zerolog.Nop(),
	})
	return s
}

// Chain creates a level-1, level-2 and level-3 account, each under the last.
// The leaf carries the given type and opening balance.
func (s *Stack) Chain(ctx context.Context, prefix string, leafType domain.AccountType, opening decimal.Decimal) (l1, l2, l3 *domain.Account) {
	s.DB.t.Helper()

	var err error
	l1, err = s.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		Name: prefix + " Group", Type: domain.AccountTypeAccount, BalanceType: domain.BalanceTypeDebit, Level: 1,
	})
	if err != nil {
		s.DB.t.Fatalf("create level 1: %v", err)
	}
	l2, err = s.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		ParentID: &l1.ID, Name: prefix + " Ledger", Type: domain.AccountTypeAccount, BalanceType: domain.BalanceTypeDebit, Level: 2,
	})
	if err != nil {
		s.DB.t.Fatalf("create level 2: %v", err)
	}
	l3, err = s.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		ParentID: &l2.ID, Name: prefix, Type: leafType, BalanceType: domain.BalanceTypeDebit, OpeningBalance: opening, Level: 3,
	})
	if err != nil {
		s.DB.t.Fatalf("create level 3: %v", err)
	}
	return l1, l2, l3
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
