package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/postgres/generated"
	"github.com/iho/factoryledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts a chart node.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := txQueries(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		ParentID:       ptrToText(account.ParentID),
		Level:          int16(account.Level),
		Name:           account.Name,
		AccountType:    string(account.Type),
		BalanceType:    string(account.BalanceType),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapWriteError("create account", err)
	}
	return nil
}

// Update writes the mutable fields of an account.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := txQueries(tx).UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:             account.ID,
		Name:           account.Name,
		AccountType:    string(account.Type),
		BalanceType:    string(account.BalanceType),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapWriteError("update account", err)
	}
	return nil
}

// Delete removes an account. Foreign keys reject the delete while rows
// still reference it.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := txQueries(tx).DeleteAccount(ctx, id)
	if err != nil {
		return mapWriteError("delete account", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, persistenceError("get account", err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, persistenceError("lock account", err)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks several accounts in id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := txQueries(tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, persistenceError("lock accounts", err)
	}

	return rowsToAccounts(rows), nil
}

// UpdateBalance writes the cached display balance.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	err := txQueries(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:             id,
		CurrentBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return persistenceError("update account balance", err)
	}
	return nil
}

// NameExists reports whether a sibling already uses name, ignoring case.
func (r *AccountRepository) NameExists(ctx context.Context, tx usecase.Transaction, parentID *string, name, excludeID string) (bool, error) {
	exists, err := txQueries(tx).AccountNameExists(ctx, generated.AccountNameExistsParams{
		ParentID:  ptrToText(parentID),
		Name:      name,
		ExcludeID: excludeID,
	})
	if err != nil {
		return false, persistenceError("check account name", err)
	}
	return exists, nil
}

func (r *AccountRepository) CountChildren(ctx context.Context, tx usecase.Transaction, id string) (int64, error) {
	n, err := txQueries(tx).CountChildAccounts(ctx, pgtype.Text{String: id, Valid: true})
	if err != nil {
		return 0, persistenceError("count child accounts", err)
	}
	return n, nil
}

// List returns accounts at level, or the whole chart when level is 0.
func (r *AccountRepository) List(ctx context.Context, level int) ([]*domain.Account, error) {
	var (
		rows []generated.Account
		err  error
	)
	if level == 0 {
		rows, err = r.queries.ListAccounts(ctx)
	} else {
		rows, err = r.queries.ListAccountsByLevel(ctx, int16(level))
	}
	if err != nil {
		return nil, persistenceError("list accounts", err)
	}

	return rowsToAccounts(rows), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		ParentID:       textToPtr(row.ParentID),
		Level:          int(row.Level),
		Name:           row.Name,
		Type:           domain.AccountType(row.AccountType),
		BalanceType:    domain.BalanceType(row.BalanceType),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

func txQueries(tx usecase.Transaction) *generated.Queries {
	return generated.New(tx.(*Tx).PgxTx())
}

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

// mapWriteError turns constraint violations into domain errors.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrDuplicateName
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrAccountInUse, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
		}
	}
	return persistenceError(op, err)
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// boundToPgTimestamptz maps an open bound to NULL.
func boundToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
