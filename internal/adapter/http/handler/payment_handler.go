package handler

import (
	"context"
	"net/http"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// PaymentService defines the voucher postings needed by PaymentHandler.
type PaymentService interface {
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	RecordExpense(ctx context.Context, input usecase.RecordExpenseInput) (*usecase.ExpenseResult, error)
	PostLongVoucher(ctx context.Context, input usecase.LongVoucherInput) ([]*domain.Transaction, error)
}

// PaymentHandler handles payment, expense and long voucher requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Received records money received from a party.
func (h *PaymentHandler) Received(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.PaymentReceived)
}

// Issued records money paid out to a party.
func (h *PaymentHandler) Issued(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.PaymentIssued)
}

func (h *PaymentHandler) record(w http.ResponseWriter, r *http.Request, paymentType domain.PaymentType) {
	var req dto.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.paymentUC.RecordPayment(r.Context(), req.ToUseCaseInput(paymentType))
	if err != nil {
		writeDomainError(w, r, "failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromUseCase(result))
}

// LongVoucher posts a transfer between two accounts.
func (h *PaymentHandler) LongVoucher(w http.ResponseWriter, r *http.Request) {
	var req dto.LongVoucherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rows, err := h.paymentUC.PostLongVoucher(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to post long voucher", err)
		return
	}

	voucherNo := ""
	if len(rows) > 0 {
		voucherNo = rows[0].ReferenceNo
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"voucher_no":   voucherNo,
		"transactions": dto.TransactionsFromDomain(rows),
	})
}

// Expense records an expense voucher.
func (h *PaymentHandler) Expense(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.paymentUC.RecordExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromUseCase(result))
}
