package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

type balanceServiceStub struct {
	ledgerFn    func(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error)
	statementFn func(ctx context.Context, q usecase.BalanceQuery) (*usecase.Statement, error)
}

func (s *balanceServiceStub) Ledger(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error) {
	return s.ledgerFn(ctx, q)
}

func (s *balanceServiceStub) Statement(ctx context.Context, q usecase.BalanceQuery) (*usecase.Statement, error) {
	return s.statementFn(ctx, q)
}

type postingServiceStub struct {
	singleFn   func(ctx context.Context, input usecase.PostSingleInput) (*domain.Transaction, error)
	transferFn func(ctx context.Context, input usecase.PostTransferInput) ([]*domain.Transaction, error)
	byRefFn    func(ctx context.Context, referenceNo string) ([]*domain.Transaction, error)
}

func (s *postingServiceStub) PostSingle(ctx context.Context, input usecase.PostSingleInput) (*domain.Transaction, error) {
	return s.singleFn(ctx, input)
}

func (s *postingServiceStub) PostTransfer(ctx context.Context, input usecase.PostTransferInput) ([]*domain.Transaction, error) {
	return s.transferFn(ctx, input)
}

func (s *postingServiceStub) ListByReference(ctx context.Context, referenceNo string) ([]*domain.Transaction, error) {
	return s.byRefFn(ctx, referenceNo)
}

type consistencyServiceStub struct {
	report *usecase.ReconciliationReport
	err    error
}

func (s *consistencyServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.report, s.err
}

func sampleBalance() *domain.AccountBalance {
	return &domain.AccountBalance{
		AccountID: "acc-1",
		Level:     3,
		Opening:   decimal.NewFromInt(1000),
		Movement:  domain.Movement{Debit: decimal.NewFromInt(300), Credit: decimal.NewFromInt(500)},
		Closing:   decimal.NewFromInt(1200),
	}
}

func TestLedgerHandler_View(t *testing.T) {
	var captured usecase.BalanceQuery
	h := NewLedgerHandler(&balanceServiceStub{
		ledgerFn: func(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error) {
			captured = q
			return &usecase.LedgerView{
				Balance:      sampleBalance(),
				Transactions: []*domain.Transaction{{ID: "t1", EntryType: domain.EntryTypeCredit, Amount: decimal.NewFromInt(500)}},
			}, nil
		},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger?accountId=acc-1&level=3&startDate=2024-01-01&endDate=2024-01-31", nil)
	rec := httptest.NewRecorder()

	h.View(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.Level != 3 {
		t.Fatalf("unexpected query %+v", captured)
	}
	if !captured.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !captured.EndDate.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window %v - %v", captured.StartDate, captured.EndDate)
	}

	resp := decodeBody[dto.LedgerResponse](t, rec)
	if !resp.ClosingBalance.Equal(decimal.NewFromInt(1200)) || resp.NetLabel != domain.NetCredit || len(resp.Transactions) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLedgerHandler_ViewDefaultsWindow(t *testing.T) {
	var captured usecase.BalanceQuery
	h := NewLedgerHandler(&balanceServiceStub{
		ledgerFn: func(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error) {
			captured = q
			return &usecase.LedgerView{Balance: sampleBalance()}, nil
		},
	}, nil, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.View(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger?accountId=acc-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !captured.EndDate.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end date to default to today, got %v", captured.EndDate)
	}
	if captured.StartDate.Year() != 1970 {
		t.Fatalf("expected start date to default to the epoch, got %v", captured.StartDate)
	}
}

func TestLedgerHandler_ViewRejectsBadInput(t *testing.T) {
	h := NewLedgerHandler(&balanceServiceStub{
		ledgerFn: func(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error) {
			t.Fatal("ledger should not be called")
			return nil, nil
		},
	}, nil, nil)

	for _, target := range []string{
		"/api/v1/ledger",
		"/api/v1/ledger?accountId=a&startDate=yesterday",
		"/api/v1/ledger?accountId=a&endDate=2024-13-01",
	} {
		rec := httptest.NewRecorder()
		h.View(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestLedgerHandler_ViewMapsDomainErrors(t *testing.T) {
	h := NewLedgerHandler(&balanceServiceStub{
		ledgerFn: func(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error) {
			return nil, domain.ErrInvalidDateRange
		},
	}, nil, nil)

	rec := httptest.NewRecorder()
	h.View(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger?accountId=a&startDate=2024-02-01&endDate=2024-01-01", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_Statement(t *testing.T) {
	h := NewLedgerHandler(&balanceServiceStub{
		statementFn: func(ctx context.Context, q usecase.BalanceQuery) (*usecase.Statement, error) {
			row := &domain.Transaction{ID: "t1", EntryType: domain.EntryTypeCredit, Amount: decimal.NewFromInt(500)}
			return &usecase.Statement{
				Balance: sampleBalance(),
				Lines:   []domain.StatementLine{{Transaction: row, Balance: decimal.NewFromInt(1500)}},
			}, nil
		},
	}, nil, nil)

	rec := httptest.NewRecorder()
	h.Statement(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/statement?accountId=acc-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[dto.StatementResponse](t, rec)
	if !resp.Consistent || len(resp.Lines) != 1 || !resp.Lines[0].RunningBalance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected statement %+v", resp)
	}
}

func TestLedgerHandler_PostTransfer(t *testing.T) {
	var captured usecase.PostTransferInput
	h := NewLedgerHandler(nil, &postingServiceStub{
		transferFn: func(ctx context.Context, input usecase.PostTransferInput) ([]*domain.Transaction, error) {
			captured = input
			return []*domain.Transaction{
				{ID: "c", AccountID: input.FromAccountID, EntryType: domain.EntryTypeCredit, Amount: input.Amount},
				{ID: "d", AccountID: input.ToAccountID, EntryType: domain.EntryTypeDebit, Amount: input.Amount},
			}, nil
		},
	}, nil)

	body := `{"from_account_id":"sales","to_account_id":"customer","posting_kind":"SALE","reference_no":"INV-1","amount":"99.90"}`
	rec := httptest.NewRecorder()
	h.PostTransfer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ledger/transfers", bytes.NewBufferString(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Kind != domain.PostingKindSale || captured.ReferenceNo != "INV-1" {
		t.Fatalf("unexpected input %+v", captured)
	}
	if resp := decodeBody[[]dto.TransactionResponse](t, rec); len(resp) != 2 {
		t.Fatalf("expected two legs, got %d", len(resp))
	}
}

func TestLedgerHandler_PostTransferSameAccount(t *testing.T) {
	h := NewLedgerHandler(nil, &postingServiceStub{
		transferFn: func(ctx context.Context, input usecase.PostTransferInput) ([]*domain.Transaction, error) {
			return nil, domain.ErrSameAccount
		},
	}, nil)

	body := `{"from_account_id":"a","to_account_id":"a","posting_kind":"SALE","reference_no":"X","amount":"1"}`
	rec := httptest.NewRecorder()
	h.PostTransfer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ledger/transfers", bytes.NewBufferString(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_PostTransferReusedReference(t *testing.T) {
	h := NewLedgerHandler(nil, &postingServiceStub{
		transferFn: func(ctx context.Context, input usecase.PostTransferInput) ([]*domain.Transaction, error) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateReference, input.ReferenceNo)
		},
	}, nil)

	body := `{"from_account_id":"a","to_account_id":"b","posting_kind":"PURCHASE","reference_no":"GRN-1","amount":"1"}`
	rec := httptest.NewRecorder()
	h.PostTransfer(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ledger/transfers", bytes.NewBufferString(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeBody[dto.ErrorResponse](t, rec); resp.Outcome != string(domain.OutcomeNothingChanged) {
		t.Fatalf("expected nothing_changed, got %+v", resp)
	}
}

func TestLedgerHandler_PostSingle(t *testing.T) {
	h := NewLedgerHandler(nil, &postingServiceStub{
		singleFn: func(ctx context.Context, input usecase.PostSingleInput) (*domain.Transaction, error) {
			if input.EntryType != domain.EntryTypeDebit {
				t.Fatalf("expected DEBIT, got %s", input.EntryType)
			}
			return &domain.Transaction{ID: "t1", AccountID: input.AccountID, EntryType: input.EntryType, Amount: input.Amount}, nil
		},
	}, nil)

	body := `{"account_id":"acc","entry_type":"debit","reference_no":"ADJ-1","amount":"10"}`
	rec := httptest.NewRecorder()
	h.PostSingle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ledger/postings", bytes.NewBufferString(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLedgerHandler_ByReference(t *testing.T) {
	h := NewLedgerHandler(nil, &postingServiceStub{
		byRefFn: func(ctx context.Context, referenceNo string) ([]*domain.Transaction, error) {
			return []*domain.Transaction{{ID: "a", ReferenceNo: referenceNo}, {ID: "b", ReferenceNo: referenceNo}}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.ByReference(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "ref", "LV-240101-001"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[[]dto.TransactionResponse](t, rec)
	if len(resp) != 2 || resp[0].ReferenceNo != "LV-240101-001" {
		t.Fatalf("unexpected rows %+v", resp)
	}
}

func TestLedgerHandler_Consistency(t *testing.T) {
	tests := []struct {
		name   string
		stub   *consistencyServiceStub
		status int
	}{
		{"healthy", &consistencyServiceStub{report: &usecase.ReconciliationReport{LedgerConsistent: true}}, http.StatusOK},
		{"imbalanced", &consistencyServiceStub{report: &usecase.ReconciliationReport{
			Imbalances: []domain.ReferenceImbalance{{ReferenceNo: "R", Rows: 1}},
		}}, http.StatusConflict},
		{"failure", &consistencyServiceStub{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(nil, nil, tt.stub)
			rec := httptest.NewRecorder()
			h.Consistency(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
