package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/postgres/generated"
	"github.com/iho/factoryledger/internal/usecase"
)

// VoucherRepository implements usecase.VoucherRepository.
type VoucherRepository struct {
	queries *generated.Queries
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return newVoucherRepository(pool)
}

func newVoucherRepository(db generated.DBTX) *VoucherRepository {
	return &VoucherRepository{queries: generated.New(db)}
}

// LockSequence takes a transaction-scoped advisory lock keyed by prefix.
func (r *VoucherRepository) LockSequence(ctx context.Context, tx usecase.Transaction, prefix string) error {
	if err := txQueries(tx).LockVoucherSequence(ctx, prefix); err != nil {
		return persistenceError("lock voucher sequence", err)
	}
	return nil
}

// LastVoucherNo reads expenses for EV prefixes and payments otherwise.
func (r *VoucherRepository) LastVoucherNo(ctx context.Context, tx usecase.Transaction, prefix string) (string, error) {
	q := txQueries(tx)

	var (
		last string
		err  error
	)
	if strings.HasPrefix(prefix, string(domain.VoucherExpense)) {
		last, err = q.LastExpenseVoucherNo(ctx, prefix)
	} else {
		last, err = q.LastPaymentVoucherNo(ctx, prefix)
	}
	if err != nil {
		return "", persistenceError("read last voucher", err)
	}
	return last, nil
}

func (r *VoucherRepository) CreatePayment(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	err := txQueries(tx).CreatePayment(ctx, generated.CreatePaymentParams{
		ID:            payment.ID,
		VoucherNo:     payment.VoucherNo,
		PaymentType:   string(payment.Type),
		AccountID:     payment.AccountID,
		PaymentMode:   string(payment.Mode),
		BankAccountID: ptrToText(payment.BankAccountID),
		Description:   payment.Description,
		Amount:        decimalToNumeric(payment.Amount),
		PaymentDate:   timeToPgTimestamptz(payment.PaymentDate),
		CreatedAt:     timeToPgTimestamptz(payment.CreatedAt),
	})
	if err != nil {
		return mapWriteError("create payment", err)
	}
	return nil
}

func (r *VoucherRepository) CreateExpense(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	err := txQueries(tx).CreateExpense(ctx, generated.CreateExpenseParams{
		ID:            expense.ID,
		VoucherNo:     expense.VoucherNo,
		AccountID:     expense.AccountID,
		PaymentMode:   string(expense.Mode),
		BankAccountID: ptrToText(expense.BankAccountID),
		Category:      expense.Category,
		Description:   expense.Description,
		Amount:        decimalToNumeric(expense.Amount),
		ExpenseDate:   timeToPgTimestamptz(expense.ExpenseDate),
		CreatedAt:     timeToPgTimestamptz(expense.CreatedAt),
	})
	if err != nil {
		return mapWriteError("create expense", err)
	}
	return nil
}

// ListUnsettledExpenses returns DIRECT expenses in [from, to).
func (r *VoucherRepository) ListUnsettledExpenses(ctx context.Context, from, to *time.Time) ([]*domain.Expense, error) {
	rows, err := r.queries.ListDirectExpenses(ctx, generated.ListDirectExpensesParams{
		FromDate: boundToPgTimestamptz(from),
		ToDate:   boundToPgTimestamptz(to),
	})
	if err != nil {
		return nil, persistenceError("list direct expenses", err)
	}

	expenses := make([]*domain.Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, &domain.Expense{
			ID:            row.ID,
			VoucherNo:     row.VoucherNo,
			AccountID:     row.AccountID,
			Mode:          domain.PaymentMode(row.PaymentMode),
			BankAccountID: textToPtr(row.BankAccountID),
			Category:      row.Category,
			Description:   row.Description,
			Amount:        numericToDecimal(row.Amount),
			ExpenseDate:   row.ExpenseDate.Time,
			CreatedAt:     row.CreatedAt.Time,
		})
	}
	return expenses, nil
}
