package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/postgres/generated"
	"github.com/iho/factoryledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create appends one ledger row.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, row *domain.Transaction) error {
	params := generated.CreateTransactionParams{
		ID:              row.ID,
		AccountID:       row.AccountID,
		ReferenceNo:     row.ReferenceNo,
		Description:     row.Description,
		EntryType:       string(row.EntryType),
		PostingKind:     string(row.Kind),
		Amount:          decimalToNumeric(row.Amount),
		OpeningAmount:   decimalToNumeric(row.OpeningAmount),
		IsOpening:       row.IsOpening,
		TransactionDate: timeToPgTimestamptz(row.TransactionDate),
		CreatedAt:       timeToPgTimestamptz(row.CreatedAt),
	}
	if item := row.Item; item != nil {
		params.ItemName = pgtype.Text{String: item.Name, Valid: item.Name != ""}
		params.ItemUnit = pgtype.Text{String: item.Unit, Valid: item.Unit != ""}
		params.ItemQuantity = decimalToNumeric(item.Quantity)
		params.ItemPricePerUnit = decimalToNumeric(item.PricePerUnit)
	}

	if err := txQueries(tx).CreateTransaction(ctx, params); err != nil {
		return mapWriteError("create transaction", err)
	}
	return nil
}

func (r *TransactionRepository) CountPostings(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	n, err := txQueries(tx).CountPostings(ctx, accountID)
	if err != nil {
		return 0, persistenceError("count postings", err)
	}
	return n, nil
}

func (r *TransactionRepository) DeleteOpening(ctx context.Context, tx usecase.Transaction, accountID string) error {
	if err := txQueries(tx).DeleteOpeningTransaction(ctx, accountID); err != nil {
		return persistenceError("delete opening row", err)
	}
	return nil
}

// SumBefore returns credits minus debits dated before the given instant.
func (r *TransactionRepository) SumBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumSignedBefore(ctx, generated.SumSignedBeforeParams{
		AccountID: accountID,
		Before:    timeToPgTimestamptz(before),
	})
	if err != nil {
		return decimal.Zero, persistenceError("sum transactions", err)
	}
	return numericToDecimal(total), nil
}

func (r *TransactionRepository) MovementBetween(ctx context.Context, accountID string, from, to time.Time) (domain.Movement, error) {
	row, err := r.queries.MovementBetween(ctx, generated.MovementBetweenParams{
		AccountID: accountID,
		FromDate:  timeToPgTimestamptz(from),
		ToDate:    timeToPgTimestamptz(to),
	})
	if err != nil {
		return domain.Movement{}, persistenceError("sum movement", err)
	}
	return domain.Movement{
		Debit:  numericToDecimal(row.Debit),
		Credit: numericToDecimal(row.Credit),
	}, nil
}

func (r *TransactionRepository) ListBetween(ctx context.Context, accountIDs []string, from, to time.Time) ([]*domain.Transaction, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	rows, err := r.queries.ListTransactionsBetween(ctx, generated.ListTransactionsBetweenParams{
		AccountIds: accountIDs,
		FromDate:   timeToPgTimestamptz(from),
		ToDate:     timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, persistenceError("list transactions", err)
	}
	return rowsToTransactions(rows), nil
}

func (r *TransactionRepository) ListByReference(ctx context.Context, referenceNo string) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByReference(ctx, referenceNo)
	if err != nil {
		return nil, persistenceError("list transactions by reference", err)
	}
	return rowsToTransactions(rows), nil
}

// LockReference takes a transaction-scoped advisory lock keyed by the
// reference number.
func (r *TransactionRepository) LockReference(ctx context.Context, tx usecase.Transaction, referenceNo string) error {
	if err := txQueries(tx).LockReference(ctx, referenceNo); err != nil {
		return persistenceError("lock reference", err)
	}
	return nil
}

// ReferenceExists reads inside tx so a retrying caller sees its own writes.
func (r *TransactionRepository) ReferenceExists(ctx context.Context, tx usecase.Transaction, referenceNo string) (bool, error) {
	exists, err := txQueries(tx).ReferenceExists(ctx, referenceNo)
	if err != nil {
		return false, persistenceError("check reference", err)
	}
	return exists, nil
}

func rowsToTransactions(rows []generated.Transaction) []*domain.Transaction {
	out := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToTransaction(row))
	}
	return out
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	t := &domain.Transaction{
		ID:              row.ID,
		AccountID:       row.AccountID,
		ReferenceNo:     row.ReferenceNo,
		Description:     row.Description,
		EntryType:       domain.EntryType(row.EntryType),
		Kind:            domain.PostingKind(row.PostingKind),
		Amount:          numericToDecimal(row.Amount),
		OpeningAmount:   numericToDecimal(row.OpeningAmount),
		IsOpening:       row.IsOpening,
		TransactionDate: row.TransactionDate.Time,
		CreatedAt:       row.CreatedAt.Time,
	}
	if row.ItemName.Valid || row.ItemQuantity.Valid {
		t.Item = &domain.ItemDetail{
			Name:         row.ItemName.String,
			Unit:         row.ItemUnit.String,
			Quantity:     numericToDecimal(row.ItemQuantity),
			PricePerUnit: numericToDecimal(row.ItemPricePerUnit),
		}
	}
	return t
}
