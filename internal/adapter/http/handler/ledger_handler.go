package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// BalanceService defines the balance reads needed by LedgerHandler.
type BalanceService interface {
	Ledger(ctx context.Context, q usecase.BalanceQuery) (*usecase.LedgerView, error)
	Statement(ctx context.Context, q usecase.BalanceQuery) (*usecase.Statement, error)
}

// PostingService defines the ledger writes needed by LedgerHandler.
type PostingService interface {
	PostSingle(ctx context.Context, input usecase.PostSingleInput) (*domain.Transaction, error)
	PostTransfer(ctx context.Context, input usecase.PostTransferInput) ([]*domain.Transaction, error)
	ListByReference(ctx context.Context, referenceNo string) ([]*domain.Transaction, error)
}

// ConsistencyService defines the reconciliation run by LedgerHandler.
type ConsistencyService interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// LedgerHandler handles ledger views, postings and consistency checks.
type LedgerHandler struct {
	balanceUC     BalanceService
	postingUC     PostingService
	consistencyUC ConsistencyService
	now           func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(balanceUC BalanceService, postingUC PostingService, consistencyUC ConsistencyService) *LedgerHandler {
	return &LedgerHandler{
		balanceUC:     balanceUC,
		postingUC:     postingUC,
		consistencyUC: consistencyUC,
		now:           time.Now,
	}
}

// View returns opening, movement and closing of a window plus its rows.
func (h *LedgerHandler) View(w http.ResponseWriter, r *http.Request) {
	q, ok := h.balanceQuery(w, r)
	if !ok {
		return
	}

	view, err := h.balanceUC.Ledger(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, "failed to load ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromUseCase(view))
}

// Statement returns a window's rows with a running balance.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	q, ok := h.balanceQuery(w, r)
	if !ok {
		return
	}

	statement, err := h.balanceUC.Statement(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, "failed to build statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(statement))
}

// ByReference returns every row sharing a reference number.
func (h *LedgerHandler) ByReference(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing reference", "")
		return
	}

	rows, err := h.postingUC.ListByReference(r.Context(), ref)
	if err != nil {
		writeDomainError(w, r, "failed to list reference", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(rows))
}

// PostSingle writes one ledger row.
func (h *LedgerHandler) PostSingle(w http.ResponseWriter, r *http.Request) {
	var req dto.PostingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	row, err := h.postingUC.PostSingle(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to post", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(row))
}

// PostTransfer writes a double-entry pair.
func (h *LedgerHandler) PostTransfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rows, err := h.postingUC.PostTransfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to post transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionsFromDomain(rows))
}

// Consistency runs every reconciliation check. An unhealthy ledger is
// reported with 409.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistencyUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ConsistencyFromUseCase(report))
}

// balanceQuery reads accountId, level, startDate and endDate. Missing dates
// default to the epoch and today.
func (h *LedgerHandler) balanceQuery(w http.ResponseWriter, r *http.Request) (usecase.BalanceQuery, bool) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing accountId", "")
		return usecase.BalanceQuery{}, false
	}

	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate", err.Error())
		return usecase.BalanceQuery{}, false
	}
	end, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate", err.Error())
		return usecase.BalanceQuery{}, false
	}

	q := usecase.BalanceQuery{
		AccountID: accountID,
		Level:     parseIntQuery(r, "level", 0),
		StartDate: time.Unix(0, 0).UTC(),
		EndDate:   domain.StartOfDay(h.now()),
	}
	if start != nil {
		q.StartDate = *start
	}
	if end != nil {
		q.EndDate = *end
	}
	return q, true
}
