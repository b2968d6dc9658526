package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// UnbalancedReferences checks every transfer-style reference for exactly
// one debit and one credit of equal amount on two accounts.
func (r *LedgerRepository) UnbalancedReferences(ctx context.Context) ([]domain.ReferenceImbalance, error) {
	kinds := make([]string, 0, len(domain.TransferKinds))
	for _, k := range domain.TransferKinds {
		kinds = append(kinds, string(k))
	}

	rows, err := r.queries.ListUnbalancedReferences(ctx, kinds)
	if err != nil {
		return nil, persistenceError("check ledger consistency", err)
	}

	out := make([]domain.ReferenceImbalance, 0, len(rows))
	for _, row := range rows {
		debit, err := toDecimal(row.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := toDecimal(row.Credit)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ReferenceImbalance{
			ReferenceNo: row.ReferenceNo,
			Rows:        int(row.RowCount),
			Debit:       debit,
			Credit:      credit,
		})
	}
	return out, nil
}

func toDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(n.Int.String())
	if err != nil {
		return decimal.Zero, err
	}

	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d, nil
}
