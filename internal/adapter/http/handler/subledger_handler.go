package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// SubledgerService defines the cash and bank operations needed by
// SubledgerHandler.
type SubledgerService interface {
	AppendTransaction(ctx context.Context, input usecase.AppendInput) (*domain.SubledgerEntry, error)
	RecordBankTransaction(ctx context.Context, input usecase.BankTransactionInput) ([]*domain.SubledgerEntry, error)
	CashBalances(ctx context.Context) ([]*domain.CashBook, error)
	ListEntries(ctx context.Context, instrument domain.Instrument, from, to *time.Time) ([]*domain.SubledgerEntry, error)
	VerifyChain(ctx context.Context, instrument domain.Instrument) (*usecase.ChainReport, error)
}

// BankAccountService defines bank account management.
type BankAccountService interface {
	CreateBankAccount(ctx context.Context, input usecase.CreateBankAccountInput) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]*domain.BankAccount, error)
}

// SubledgerHandler handles cash book and bank account requests.
type SubledgerHandler struct {
	subledgerUC SubledgerService
	bankUC      BankAccountService
}

// NewSubledgerHandler creates a new SubledgerHandler.
func NewSubledgerHandler(subledgerUC SubledgerService, bankUC BankAccountService) *SubledgerHandler {
	return &SubledgerHandler{subledgerUC: subledgerUC, bankUC: bankUC}
}

// CreateBankAccount registers a bank account.
func (h *SubledgerHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.bankUC.CreateBankAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create bank account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankAccountFromDomain(account))
}

// ListBankAccounts lists bank accounts with their balances.
func (h *SubledgerHandler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.bankUC.ListBankAccounts(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to list bank accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountsFromDomain(accounts))
}

// CreateBankTransaction appends a bank row, and the linked cash row when
// update_cash is set.
func (h *SubledgerHandler) CreateBankTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.BankTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entries, err := h.subledgerUC.RecordBankTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record bank transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubledgerEntriesFromDomain(entries))
}

// ListBankTransactions returns a bank account's running balance rows.
func (h *SubledgerHandler) ListBankTransactions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.BankInstrument(chi.URLParam(r, "id")))
}

// CreateCashTransaction appends a manual cash-book row.
func (h *SubledgerHandler) CreateCashTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.CashTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.subledgerUC.AppendTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record cash transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubledgerEntryFromDomain(entry))
}

// CashBalances lists cash books with their balances.
func (h *SubledgerHandler) CashBalances(w http.ResponseWriter, r *http.Request) {
	books, err := h.subledgerUC.CashBalances(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to load cash balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashBooksFromDomain(books))
}

// ListCashTransactions returns a cash book's running balance rows.
func (h *SubledgerHandler) ListCashTransactions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.CashInstrument(chi.URLParam(r, "id")))
}

// Verify walks an instrument's chain and reports the first break.
func (h *SubledgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	instrument := domain.Instrument{
		Kind: domain.InstrumentKind(strings.ToUpper(chi.URLParam(r, "kind"))),
		ID:   chi.URLParam(r, "id"),
	}

	report, err := h.subledgerUC.VerifyChain(r.Context(), instrument)
	if err != nil {
		writeDomainError(w, r, "failed to verify subledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChainReportFromUseCase(report))
}

func (h *SubledgerHandler) list(w http.ResponseWriter, r *http.Request, instrument domain.Instrument) {
	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate", err.Error())
		return
	}
	end, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate", err.Error())
		return
	}
	if start != nil && end != nil {
		if err := domain.ValidateDateRange(*start, *end); err != nil {
			writeDomainError(w, r, "invalid date range", err)
			return
		}
	}

	from, to := windowBounds(start, end)
	entries, err := h.subledgerUC.ListEntries(r.Context(), instrument, from, to)
	if err != nil {
		writeDomainError(w, r, "failed to list subledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SubledgerEntriesFromDomain(entries))
}
