package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/domain"
)

// CashFlowService defines the cash-flow report.
type CashFlowService interface {
	Report(ctx context.Context, filter domain.CashFlowFilter) (*domain.CashFlowReport, error)
}

// ReportHandler handles report requests.
type ReportHandler struct {
	cashFlowUC CashFlowService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(cashFlowUC CashFlowService) *ReportHandler {
	return &ReportHandler{cashFlowUC: cashFlowUC}
}

// CashFlow returns the merged cash and bank flow. unified=false keeps both
// legs of bank/cash transfers.
func (h *ReportHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
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

	filter := domain.CashFlowFilter{
		StartDate:         start,
		EndDate:           end,
		FlowType:          domain.EntryType(strings.ToUpper(r.URL.Query().Get("transactionType"))),
		SourceType:        domain.SourceType(strings.ToUpper(r.URL.Query().Get("sourceType"))),
		IncludeLinkedLegs: !parseBoolQuery(r, "unified", true),
	}

	report, err := h.cashFlowUC.Report(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to build cash flow", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashFlowFromDomain(report))
}
