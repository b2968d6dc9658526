package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// PostingUseCase writes ledger postings: single rows and double-entry pairs.
type PostingUseCase struct {
	txManager TransactionManager
	ledger    *ledgerWriter
	txRepo    TransactionRepository
	cache     Cache
	metrics   Metrics
}

// NewPostingUseCase creates a new PostingUseCase. cache may be nil.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager: txManager,
		ledger: &ledgerWriter{
			accountRepo: accountRepo,
			txRepo:      txRepo,
			outboxRepo:  outboxRepo,
			idGen:       idGen,
		},
		txRepo:  txRepo,
		cache:   cache,
		metrics: metricsOrNoop(metrics),
	}
}

// PostSingleInput represents input for a one-row posting.
type PostSingleInput struct {
	Date        *time.Time
	Item        *domain.ItemDetail
	AccountID   string
	EntryType   domain.EntryType
	Kind        domain.PostingKind
	ReferenceNo string
	Description string
	Amount      decimal.Decimal
}

// PostTransferInput represents input for a double-entry posting. The from
// account is credited and the to account debited.
type PostTransferInput struct {
	Date          *time.Time
	Item          *domain.ItemDetail
	FromAccountID string
	ToAccountID   string
	Kind          domain.PostingKind
	ReferenceNo   string
	Description   string
	Amount        decimal.Decimal
}

// PostSingle writes one ledger row and updates the account's cached balance.
func (uc *PostingUseCase) PostSingle(ctx context.Context, input PostSingleInput) (*domain.Transaction, error) {
	kind := input.Kind
	if kind == "" {
		kind = domain.PostingKindAdjustment
	}
	if kind.IsTransfer() {
		uc.metrics.PostingRejected("validation")
		return nil, domain.ErrInvalidPostingKind
	}

	rows, err := uc.run(ctx, &ledgerPosting{
		Legs:        []ledgerLeg{{AccountID: input.AccountID, EntryType: input.EntryType}},
		Amount:      input.Amount,
		ReferenceNo: input.ReferenceNo,
		Description: input.Description,
		Kind:        kind,
		Date:        dateOrZero(input.Date),
		Item:        input.Item,
	})
	if err != nil {
		return nil, err
	}

	return rows[0], nil
}

// PostTransfer writes a CREDIT on the from account and a DEBIT on the to
// account under one reference, atomically.
func (uc *PostingUseCase) PostTransfer(ctx context.Context, input PostTransferInput) ([]*domain.Transaction, error) {
	if input.FromAccountID == input.ToAccountID {
		uc.metrics.PostingRejected("same_account")
		return nil, domain.ErrSameAccount
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.PostingKindAdjustment
	}

	return uc.run(ctx, transferPosting(input.FromAccountID, input.ToAccountID, input.Amount,
		input.ReferenceNo, input.Description, kind, dateOrZero(input.Date), input.Item))
}

// ListByReference returns every ledger row sharing a reference.
func (uc *PostingUseCase) ListByReference(ctx context.Context, referenceNo string) ([]*domain.Transaction, error) {
	if err := domain.ValidateReference(referenceNo); err != nil {
		return nil, err
	}
	return uc.txRepo.ListByReference(ctx, referenceNo)
}

func (uc *PostingUseCase) run(ctx context.Context, p *ledgerPosting) ([]*domain.Transaction, error) {
	if err := p.validate(); err != nil {
		uc.metrics.PostingRejected(rejectionReason(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := uc.ledger.post(ctx, tx, p)
	if err != nil {
		uc.metrics.PostingRejected(rejectionReason(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	invalidateChart(ctx, uc.cache)

	uc.metrics.PostingCommitted(p.Kind, len(rows))
	log.Debug().
		Str("reference_no", p.ReferenceNo).
		Str("kind", string(p.Kind)).
		Int("legs", len(rows)).
		Msg("ledger posting committed")

	return rows, nil
}

func transferPosting(from, to string, amount decimal.Decimal, ref, desc string, kind domain.PostingKind, date time.Time, item *domain.ItemDetail) *ledgerPosting {
	return &ledgerPosting{
		Legs: []ledgerLeg{
			{AccountID: from, EntryType: domain.EntryTypeCredit},
			{AccountID: to, EntryType: domain.EntryTypeDebit},
		},
		Amount:      amount,
		ReferenceNo: ref,
		Description: desc,
		Kind:        kind,
		Date:        date,
		Item:        item,
	}
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
