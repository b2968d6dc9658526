package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// ReconciliationUseCase compares cached balances with the rows they were
// derived from and checks that transfer references balance.
type ReconciliationUseCase struct {
	accountRepo   AccountRepository
	txRepo        TransactionRepository
	ledgerRepo    LedgerRepository
	subledgerRepo SubledgerRepository
	bankRepo      BankAccountRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	ledgerRepo LedgerRepository,
	subledgerRepo SubledgerRepository,
	bankRepo BankAccountRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:   accountRepo,
		txRepo:        txRepo,
		ledgerRepo:    ledgerRepo,
		subledgerRepo: subledgerRepo,
		bankRepo:      bankRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes an account's balance from its opening balance
// and every row posted to it, and compares it with the cached balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return uc.reconcile(ctx, account)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	sum, err := uc.txRepo.SumBefore(ctx, account.ID, domain.EndOfTime)
	if err != nil {
		return nil, err
	}
	calculated := account.OpeningBalance.Add(sum)

	return &ReconciliationResult{
		AccountID:         account.ID,
		RecordedBalance:   account.CurrentBalance,
		CalculatedBalance: calculated,
		Difference:        account.CurrentBalance.Sub(calculated),
		IsReconciled:      account.CurrentBalance.Equal(calculated),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles every account in the chart.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	accounts, err := uc.accountRepo.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, account := range accounts {
		result, err := uc.reconcile(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// CheckLedgerConsistency returns every transfer reference that is not an
// equal and opposite pair of rows.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) ([]domain.ReferenceImbalance, error) {
	return uc.ledgerRepo.UnbalancedReferences(ctx)
}

// VerifyInstruments checks the running-balance chain of every cash book and
// bank account.
func (uc *ReconciliationUseCase) VerifyInstruments(ctx context.Context) ([]*ChainReport, error) {
	books, err := uc.subledgerRepo.ListCashBooks(ctx)
	if err != nil {
		return nil, err
	}
	banks, err := uc.bankRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	instruments := make([]domain.Instrument, 0, len(books)+len(banks))
	for _, b := range books {
		instruments = append(instruments, domain.CashInstrument(b.ID))
	}
	for _, b := range banks {
		instruments = append(instruments, domain.BankInstrument(b.ID))
	}

	reports := make([]*ChainReport, 0, len(instruments))
	for _, inst := range instruments {
		entries, err := uc.subledgerRepo.List(ctx, inst, nil, nil)
		if err != nil {
			return nil, err
		}
		report, err := chainReport(ctx, uc.subledgerRepo, inst, entries)
		if err != nil {
			return nil, fmt.Errorf("failed to verify %s: %w", inst, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	Imbalances         []domain.ReferenceImbalance
	BrokenInstruments  []*ChainReport
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// Healthy reports whether nothing needs attention.
func (r *ReconciliationReport) Healthy() bool {
	return len(r.Discrepancies) == 0 && r.LedgerConsistent && len(r.BrokenInstruments) == 0
}

// GenerateReconciliationReport runs every check and collects what failed.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}
	imbalances, err := uc.CheckLedgerConsistency(ctx)
	if err != nil {
		return nil, err
	}
	chains, err := uc.VerifyInstruments(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts:     len(results),
		Discrepancies:     make([]*ReconciliationResult, 0),
		Imbalances:        imbalances,
		BrokenInstruments: make([]*ChainReport, 0),
		LedgerConsistent:  len(imbalances) == 0,
		CheckedAt:         time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}
	for _, chain := range chains {
		if !chain.Valid() {
			report.BrokenInstruments = append(report.BrokenInstruments, chain)
		}
	}

	return report, nil
}
