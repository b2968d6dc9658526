package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// SubledgerUseCase handles cash and bank subledger postings.
type SubledgerUseCase struct {
	txManager TransactionManager
	writer    *subledgerWriter
	repo      SubledgerRepository
	bankRepo  BankAccountRepository
	idGen     IDGenerator
	metrics   Metrics
}

// NewSubledgerUseCase creates a new SubledgerUseCase.
func NewSubledgerUseCase(
	txManager TransactionManager,
	repo SubledgerRepository,
	bankRepo BankAccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics Metrics,
) *SubledgerUseCase {
	return &SubledgerUseCase{
		txManager: txManager,
		writer:    &subledgerWriter{repo: repo, outboxRepo: outboxRepo, idGen: idGen},
		repo:      repo,
		bankRepo:  bankRepo,
		idGen:     idGen,
		metrics:   metricsOrNoop(metrics),
	}
}

// AppendInput represents input for one subledger row.
type AppendInput struct {
	Date       *time.Time
	Instrument domain.Instrument
	Type       domain.EntryType
	Reference  string
	Remarks    string
	Amount     decimal.Decimal
}

// BankTransactionInput represents a bank deposit or withdrawal. With
// UpdateCash set, a linked cash row moves the same amount the other way.
type BankTransactionInput struct {
	Date          *time.Time
	BankAccountID string
	Type          domain.EntryType
	Reference     string
	Remarks       string
	Amount        decimal.Decimal
	UpdateCash    bool
}

// ChainReport is the result of verifying one instrument's chain.
type ChainReport struct {
	Instrument      domain.Instrument
	Rows            int
	CachedBalance   decimal.Decimal
	LastBalance     decimal.Decimal
	Break           *domain.ChainBreak
	CacheConsistent bool
}

// Valid reports whether the chain holds and the cached balance matches.
func (r *ChainReport) Valid() bool {
	return r.Break == nil && r.CacheConsistent
}

// AppendTransaction appends one row to an instrument's running balance.
// Concurrent appends to the same instrument are serialized by a row lock.
func (uc *SubledgerUseCase) AppendTransaction(ctx context.Context, input AppendInput) (*domain.SubledgerEntry, error) {
	entry := &domain.SubledgerEntry{
		Instrument:      input.Instrument,
		Type:            input.Type,
		Origin:          domain.OriginManual,
		Reference:       strings.TrimSpace(input.Reference),
		Remarks:         input.Remarks,
		Amount:          input.Amount,
		TransactionDate: dateOrZero(input.Date),
	}

	if err := uc.appendAll(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordBankTransaction appends a bank row and, when requested, the linked
// cash row of the same transfer, in one database transaction.
func (uc *SubledgerUseCase) RecordBankTransaction(ctx context.Context, input BankTransactionInput) ([]*domain.SubledgerEntry, error) {
	bank := &domain.SubledgerEntry{
		Instrument:      domain.BankInstrument(input.BankAccountID),
		Type:            input.Type,
		Origin:          domain.OriginManual,
		Reference:       strings.TrimSpace(input.Reference),
		Remarks:         input.Remarks,
		Amount:          input.Amount,
		TransactionDate: dateOrZero(input.Date),
	}
	if !input.UpdateCash {
		if err := uc.appendAll(ctx, bank); err != nil {
			return nil, err
		}
		return []*domain.SubledgerEntry{bank}, nil
	}

	group := uc.idGen.Generate()
	bank.Origin = domain.OriginTransfer
	bank.TransferGroupID = &group

	cash := &domain.SubledgerEntry{
		Instrument:      domain.CashInstrument(""),
		Type:            input.Type.Opposite(),
		Origin:          domain.OriginTransfer,
		TransferGroupID: &group,
		Reference:       bank.Reference,
		Remarks:         input.Remarks,
		Amount:          input.Amount,
		TransactionDate: bank.TransactionDate,
	}

	// A deposit takes cash out before the bank receives it.
	entries := []*domain.SubledgerEntry{bank, cash}
	if input.Type == domain.EntryTypeCredit {
		entries = []*domain.SubledgerEntry{cash, bank}
	}
	if err := uc.appendAll(ctx, entries...); err != nil {
		return nil, err
	}
	return entries, nil
}

// CurrentBalance returns the latest balance_after of an instrument.
func (uc *SubledgerUseCase) CurrentBalance(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error) {
	if err := instrument.Validate(); err != nil {
		return decimal.Zero, err
	}
	return uc.repo.CurrentBalance(ctx, instrument)
}

// CashBalances returns every cash book with its balance.
func (uc *SubledgerUseCase) CashBalances(ctx context.Context) ([]*domain.CashBook, error) {
	return uc.repo.ListCashBooks(ctx)
}

// ListEntries returns an instrument's rows ordered by (date, id).
func (uc *SubledgerUseCase) ListEntries(ctx context.Context, instrument domain.Instrument, from, to *time.Time) ([]*domain.SubledgerEntry, error) {
	if err := instrument.Validate(); err != nil {
		return nil, err
	}
	if from != nil && to != nil {
		if err := domain.ValidateDateRange(*from, *to); err != nil {
			return nil, err
		}
	}
	if instrument.Kind == domain.InstrumentBank {
		if _, err := uc.bankRepo.GetByID(ctx, instrument.ID); err != nil {
			return nil, err
		}
	}
	return uc.repo.List(ctx, instrument, from, to)
}

// VerifyChain walks an instrument's rows and compares the last balance with
// the cached one.
func (uc *SubledgerUseCase) VerifyChain(ctx context.Context, instrument domain.Instrument) (*ChainReport, error) {
	entries, err := uc.ListEntries(ctx, instrument, nil, nil)
	if err != nil {
		return nil, err
	}
	return chainReport(ctx, uc.repo, instrument, entries)
}

func chainReport(ctx context.Context, repo SubledgerRepository, instrument domain.Instrument, entries []*domain.SubledgerEntry) (*ChainReport, error) {
	cached, err := repo.CurrentBalance(ctx, instrument)
	if err != nil {
		return nil, err
	}

	last := decimal.Zero
	if len(entries) > 0 {
		last = entries[len(entries)-1].BalanceAfter
	}

	return &ChainReport{
		Instrument:      instrument,
		Rows:            len(entries),
		CachedBalance:   cached,
		LastBalance:     last,
		Break:           domain.VerifyChain(entries),
		CacheConsistent: cached.Equal(last),
	}, nil
}

func (uc *SubledgerUseCase) appendAll(ctx context.Context, entries ...*domain.SubledgerEntry) error {
	for _, e := range entries {
		if err := domain.ValidateReference(e.Reference); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.writer.append(ctx, tx, entries...); err != nil {
		uc.metrics.PostingRejected(rejectionReason(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	for _, e := range entries {
		uc.metrics.SubledgerAppended(e.Instrument.Kind)
		log.Debug().
			Str("instrument", e.Instrument.Key()).
			Str("type", string(e.Type)).
			Str("amount", e.Amount.String()).
			Str("balance_after", e.BalanceAfter.String()).
			Msg("subledger row appended")
	}
	return nil
}
