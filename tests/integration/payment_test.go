package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
	"github.com/iho/factoryledger/tests/testutil"
)

func TestPaymentsAndExpenses(t *testing.T) {
	s := testutil.NewStack(t)
	ctx := context.Background()

	_, _, customer := s.Chain(ctx, "Acme Garments", domain.AccountTypeCustomer, decimal.Zero)
	_, _, supplier := s.Chain(ctx, "Button Works", domain.AccountTypeSupplier, decimal.Zero)
	_, _, power := s.Chain(ctx, "Electricity", domain.AccountTypeExpense, decimal.Zero)

	date := dto.Date{Time: testutil.Date(2024, 3, 4)}

	t.Run("received payments number sequentially into cash", func(t *testing.T) {
		var vouchers []string
		for _, amount := range []int64{1000, 250} {
			rec := doJSON(t, s.Router, http.MethodPost, "/api/v1/payments/received", dto.PaymentRequest{
				Date: &date, AccountID: customer.ID, PaymentMode: "cash",
				Description: "invoice settlement", Amount: decimal.NewFromInt(amount),
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			payment := decode[dto.PaymentResponse](t, rec)
			require.NotNil(t, payment.Subledger)
			assert.Equal(t, "CASH", payment.Subledger.InstrumentKind)
			vouchers = append(vouchers, payment.VoucherNo)
		}
		assert.Equal(t, []string{"RV20240001", "RV20240002"}, vouchers)

		rec := doJSON(t, s.Router, http.MethodGet, "/api/v1/cash-balances", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		books := decode[[]dto.CashBookResponse](t, rec)
		require.Len(t, books, 1)
		assert.True(t, books[0].CurrentBalance.Equal(decimal.NewFromInt(1250)))
	})

	t.Run("issued payment that overdraws cash changes nothing", func(t *testing.T) {
		rec := doJSON(t, s.Router, http.MethodPost, "/api/v1/payments/issued", dto.PaymentRequest{
			Date: &date, AccountID: supplier.ID, PaymentMode: "CASH",
			Description: "buttons", Amount: decimal.NewFromInt(5000),
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		assert.Equal(t, "nothing_changed", decode[dto.ErrorResponse](t, rec).Outcome)

		rows, err := s.Postings.ListByReference(ctx, "PV20240001")
		require.NoError(t, err)
		assert.Empty(t, rows)

		account, err := s.Accounts.GetAccount(ctx, supplier.ID)
		require.NoError(t, err)
		assert.True(t, account.CurrentBalance.IsZero())
	})

	t.Run("bank payment requires a bank account", func(t *testing.T) {
		rec := doJSON(t, s.Router, http.MethodPost, "/api/v1/payments/issued", dto.PaymentRequest{
			Date: &date, AccountID: supplier.ID, PaymentMode: "BANK", Amount: decimal.NewFromInt(10),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("direct expense touches no subledger", func(t *testing.T) {
		rec := doJSON(t, s.Router, http.MethodPost, "/api/v1/expenses", dto.ExpenseRequest{
			Date: &date, AccountID: power.ID, PaymentMode: "DIRECT", Category: "utilities",
			Description: "march bill", Amount: decimal.NewFromInt(300),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		expense := decode[dto.ExpenseResponse](t, rec)
		assert.Equal(t, "EV20240001", expense.VoucherNo)
		assert.Nil(t, expense.Subledger)
		require.Len(t, expense.Transactions, 1)
		assert.Equal(t, "DEBIT", expense.Transactions[0].EntryType)
	})

	t.Run("long voucher moves value between accounts", func(t *testing.T) {
		rows, err := s.Payments.PostLongVoucher(ctx, usecase.LongVoucherInput{
			FromAccountID: customer.ID, ToAccountID: supplier.ID,
			Description: "contra settlement", Amount: decimal.NewFromInt(75),
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, rows[0].ReferenceNo, rows[1].ReferenceNo)
		assert.Regexp(t, `^LV-\d{6}-\d{3}$`, rows[0].ReferenceNo)
	})

	t.Run("idempotent retry replays the voucher", func(t *testing.T) {
		body := dto.PaymentRequest{
			Date: &date, AccountID: customer.ID, PaymentMode: "CASH", Amount: decimal.NewFromInt(5),
		}
		first := doJSON(t, s.Router, http.MethodPost, "/api/v1/payments/received", body, "Idempotency-Key", "pay-42")
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
		second := doJSON(t, s.Router, http.MethodPost, "/api/v1/payments/received", body, "Idempotency-Key", "pay-42")
		require.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
		assert.Equal(t, decode[dto.PaymentResponse](t, first).VoucherNo, decode[dto.PaymentResponse](t, second).VoucherNo)
	})

	t.Run("ledger stays balanced against the cash book", func(t *testing.T) {
		report, err := s.Reconciliation.GenerateReconciliationReport(ctx)
		require.NoError(t, err)
		assert.True(t, report.Healthy())
	})
}
