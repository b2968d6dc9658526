package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/postgres/generated"
)

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	queries *generated.Queries
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return newBankAccountRepository(pool)
}

func newBankAccountRepository(db generated.DBTX) *BankAccountRepository {
	return &BankAccountRepository{queries: generated.New(db)}
}

func (r *BankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	err := r.queries.CreateBankAccount(ctx, generated.CreateBankAccountParams{
		ID:             account.ID,
		Name:           account.Name,
		BankName:       account.BankName,
		AccountNumber:  account.AccountNumber,
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapWriteError("create bank account", err)
	}
	return nil
}

func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	row, err := r.queries.GetBankAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}
		return nil, persistenceError("get bank account", err)
	}
	return rowToBankAccount(row), nil
}

func (r *BankAccountRepository) List(ctx context.Context) ([]*domain.BankAccount, error) {
	rows, err := r.queries.ListBankAccounts(ctx)
	if err != nil {
		return nil, persistenceError("list bank accounts", err)
	}

	accounts := make([]*domain.BankAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToBankAccount(row))
	}
	return accounts, nil
}

func rowToBankAccount(row generated.BankAccount) *domain.BankAccount {
	return &domain.BankAccount{
		ID:             row.ID,
		Name:           row.Name,
		BankName:       row.BankName,
		AccountNumber:  row.AccountNumber,
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
