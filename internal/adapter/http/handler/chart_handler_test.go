package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

type accountServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	updateFn    func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	deleteFn    func(ctx context.Context, id string, level int) error
	getFn       func(ctx context.Context, id string) (*domain.Account, error)
	listFn      func(ctx context.Context, level int) ([]*domain.Account, error)
	hierarchyFn func(ctx context.Context, typeFilter domain.AccountType) ([]*domain.AccountNode, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, input)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, id string, level int) error {
	return s.deleteFn(ctx, id, level)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ResolveUnifiedID(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, level int) ([]*domain.Account, error) {
	return s.listFn(ctx, level)
}

func (s *accountServiceStub) GetHierarchy(ctx context.Context, typeFilter domain.AccountType) ([]*domain.AccountNode, error) {
	return s.hierarchyFn(ctx, typeFilter)
}

// withURLParams attaches chi route params to a request.
func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestChartHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	h := NewChartHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: "acc-1", Level: input.Level, Name: input.Name, Type: input.Type}, nil
		},
	})

	body, _ := json.Marshal(map[string]any{
		"parent_id":       "l1",
		"name":            "Debtors",
		"account_type":    "CUSTOMER",
		"balance_type":    "DEBIT",
		"opening_balance": "250",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chart/level2", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(2)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Level != 2 || *captured.ParentID != "l1" || !captured.OpeningBalance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	resp := decodeBody[dto.AccountResponse](t, rec)
	if resp.ID != "acc-1" || resp.Level != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestChartHandler_Create_InvalidJSON(t *testing.T) {
	h := NewChartHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chart/level1", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(1)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChartHandler_Create_DuplicateName(t *testing.T) {
	h := NewChartHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrDuplicateName
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chart/level1", bytes.NewBufferString(`{"name":"Assets","balance_type":"DEBIT"}`))
	rec := httptest.NewRecorder()

	h.Create(1)(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	resp := decodeBody[dto.ErrorResponse](t, rec)
	if resp.Outcome != string(domain.OutcomeNothingChanged) {
		t.Fatalf("expected nothing_changed outcome, got %+v", resp)
	}
}

func TestChartHandler_ListLevelOne(t *testing.T) {
	h := NewChartHandler(&accountServiceStub{
		listFn: func(ctx context.Context, level int) ([]*domain.Account, error) {
			if level != 1 {
				t.Fatalf("expected level 1, got %d", level)
			}
			return []*domain.Account{{ID: "a", Level: 1}, {ID: "b", Level: 1}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(1)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chart/level1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeBody[[]dto.AccountResponse](t, rec); len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}

func TestChartHandler_ListLevelThreeReturnsTree(t *testing.T) {
	var filter domain.AccountType
	h := NewChartHandler(&accountServiceStub{
		hierarchyFn: func(ctx context.Context, typeFilter domain.AccountType) ([]*domain.AccountNode, error) {
			filter = typeFilter
			leaf := &domain.AccountNode{Account: &domain.Account{ID: "l3", Level: 3}}
			mid := &domain.AccountNode{Account: &domain.Account{ID: "l2", Level: 2}, Children: []*domain.AccountNode{leaf}}
			return []*domain.AccountNode{{Account: &domain.Account{ID: "l1", Level: 1}, Children: []*domain.AccountNode{mid}}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(3)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chart/level3?accountType=supplier", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if filter != domain.AccountTypeSupplier {
		t.Fatalf("expected SUPPLIER filter, got %q", filter)
	}
	resp := decodeBody[[]dto.AccountNodeResponse](t, rec)
	if len(resp) != 1 || resp[0].Children[0].Children[0].ID != "l3" {
		t.Fatalf("unexpected tree %+v", resp)
	}
}

func TestChartHandler_Update(t *testing.T) {
	var captured usecase.UpdateAccountInput
	h := NewChartHandler(&accountServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: input.ID, Level: input.Level, Name: *input.Name}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/chart/level3/acc-9", bytes.NewBufferString(`{"name":"Renamed"}`))
	req = withURLParams(req, "id", "acc-9")
	rec := httptest.NewRecorder()

	h.Update(3)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ID != "acc-9" || captured.Level != 3 || captured.OpeningBalance != nil {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestChartHandler_Delete(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"in use", domain.ErrAccountInUse, http.StatusConflict},
		{"missing", domain.ErrAccountNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewChartHandler(&accountServiceStub{
				deleteFn: func(ctx context.Context, id string, level int) error {
					if id != "acc-1" || level != 2 {
						t.Fatalf("unexpected delete(%s, %d)", id, level)
					}
					return tt.err
				},
			})

			req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/chart/level2/acc-1", nil), "id", "acc-1")
			rec := httptest.NewRecorder()

			h.Delete(2)(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestChartHandler_Resolve(t *testing.T) {
	h := NewChartHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id == "missing" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: id, Level: 2, Name: "Bank"}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Resolve(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", "acc-2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[dto.ResolveResponse](t, rec)
	if resp.UnifiedID != "acc-2" || resp.Level != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}

	rec = httptest.NewRecorder()
	h.Resolve(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
