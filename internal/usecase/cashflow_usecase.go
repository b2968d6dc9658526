package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/factoryledger/internal/domain"
)

// CashFlowUseCase merges cash rows, bank rows and unsettled expenses into one
// ordered cash-flow view.
type CashFlowUseCase struct {
	subledgerRepo SubledgerRepository
	voucherRepo   VoucherRepository
}

// NewCashFlowUseCase creates a new CashFlowUseCase.
func NewCashFlowUseCase(subledgerRepo SubledgerRepository, voucherRepo VoucherRepository) *CashFlowUseCase {
	return &CashFlowUseCase{subledgerRepo: subledgerRepo, voucherRepo: voucherRepo}
}

// Report builds the cash-flow view for filter.
func (uc *CashFlowUseCase) Report(ctx context.Context, filter domain.CashFlowFilter) (*domain.CashFlowReport, error) {
	if filter.StartDate != nil && filter.EndDate != nil {
		if err := domain.ValidateDateRange(*filter.StartDate, *filter.EndDate); err != nil {
			return nil, err
		}
	}
	if filter.FlowType != "" && !filter.FlowType.Valid() {
		return nil, domain.ErrInvalidEntryType
	}
	if filter.SourceType != "" && !filter.SourceType.Valid() {
		return nil, domain.ErrInvalidSourceType
	}

	from, to := queryBounds(filter)

	var cash, bank []*domain.SubledgerEntry
	var expenses []*domain.Expense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cash, err = uc.subledgerRepo.ListByKind(gctx, domain.InstrumentCash, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		bank, err = uc.subledgerRepo.ListByKind(gctx, domain.InstrumentBank, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = uc.voucherRepo.ListUnsettledExpenses(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]domain.CashFlowItem, 0, len(cash)+len(bank)+len(expenses))
	for _, e := range cash {
		items = append(items, domain.CashFlowItemFromEntry(e))
	}
	for _, e := range bank {
		items = append(items, domain.CashFlowItemFromEntry(e))
	}
	for _, e := range expenses {
		items = append(items, domain.CashFlowItemFromExpense(e))
	}

	report := domain.BuildCashFlow(items, filter)
	return &report, nil
}

// queryBounds turns inclusive filter dates into the half-open range the
// repositories expect.
func queryBounds(filter domain.CashFlowFilter) (*time.Time, *time.Time) {
	var from, to *time.Time
	if filter.StartDate != nil {
		t := domain.StartOfDay(*filter.StartDate)
		from = &t
	}
	if filter.EndDate != nil {
		t := domain.NextDay(*filter.EndDate)
		to = &t
	}
	return from, to
}
