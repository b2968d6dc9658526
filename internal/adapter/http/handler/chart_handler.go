package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// AccountService defines the behavior needed by ChartHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string, level int) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ResolveUnifiedID(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, level int) ([]*domain.Account, error)
	GetHierarchy(ctx context.Context, typeFilter domain.AccountType) ([]*domain.AccountNode, error)
}

// ChartHandler handles chart-of-accounts requests.
type ChartHandler struct {
	accountUC AccountService
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(accountUC AccountService) *ChartHandler {
	return &ChartHandler{accountUC: accountUC}
}

// List returns the flat list of a level. Level 3 returns the nested tree,
// optionally narrowed by accountType.
func (h *ChartHandler) List(level int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if level == domain.MaxChartLevel {
			filter := domain.AccountType(strings.ToUpper(r.URL.Query().Get("accountType")))
			tree, err := h.accountUC.GetHierarchy(r.Context(), filter)
			if err != nil {
				writeDomainError(w, r, "failed to load chart", err)
				return
			}
			writeJSON(w, http.StatusOK, dto.HierarchyFromDomain(tree))
			return
		}

		accounts, err := h.accountUC.ListAccounts(r.Context(), level)
		if err != nil {
			writeDomainError(w, r, "failed to list accounts", err)
			return
		}
		writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
	}
}

// Create creates an account at level.
func (h *ChartHandler) Create(level int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(level))
		if err != nil {
			writeDomainError(w, r, "failed to create account", err)
			return
		}

		writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
	}
}

// Update updates an account at level.
func (h *ChartHandler) Update(level int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing account ID", "")
			return
		}

		var req dto.UpdateAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		account, err := h.accountUC.UpdateAccount(r.Context(), req.ToUseCaseInput(id, level))
		if err != nil {
			writeDomainError(w, r, "failed to update account", err)
			return
		}

		writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
	}
}

// Delete deletes an account at level.
func (h *ChartHandler) Delete(level int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing account ID", "")
			return
		}

		if err := h.accountUC.DeleteAccount(r.Context(), id, level); err != nil {
			writeDomainError(w, r, "failed to delete account", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// Get retrieves an account by ID.
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Resolve returns the unified id and level of an account.
func (h *ChartHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.ResolveUnifiedID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to resolve account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolveResponse{
		UnifiedID: account.ID,
		Level:     account.Level,
		Name:      account.Name,
	})
}
