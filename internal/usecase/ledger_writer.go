package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// ledgerLeg is one side of a posting before it becomes a ledger row.
type ledgerLeg struct {
	AccountID string
	EntryType domain.EntryType
}

// ledgerPosting is everything needed to write one atomic posting.
type ledgerPosting struct {
	Legs        []ledgerLeg
	Amount      decimal.Decimal
	ReferenceNo string
	Description string
	Kind        domain.PostingKind
	Date        time.Time
	Item        *domain.ItemDetail
}

func (p *ledgerPosting) validate() error {
	if len(p.Legs) == 0 {
		return domain.ErrInvalidAccount
	}
	if err := domain.ValidateAmount(p.Amount); err != nil {
		return err
	}
	if err := domain.ValidateReference(p.ReferenceNo); err != nil {
		return err
	}
	if err := domain.ValidateDescription(p.Description); err != nil {
		return err
	}
	if !p.Kind.Valid() || p.Kind == domain.PostingKindOpening {
		return domain.ErrInvalidPostingKind
	}
	for _, leg := range p.Legs {
		if leg.AccountID == "" {
			return domain.ErrInvalidAccount
		}
		if !leg.EntryType.Valid() {
			return domain.ErrInvalidEntryType
		}
	}
	if len(p.Legs) == 2 && p.Legs[0].AccountID == p.Legs[1].AccountID {
		return domain.ErrSameAccount
	}
	return nil
}

// ledgerWriter writes ledger rows and keeps the cached account balances in
// step, inside a caller-owned database transaction.
type ledgerWriter struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// post claims the reference, locks every leg's account in sorted id order,
// inserts one row per leg, updates the cached balances and queues a
// ledger.posted event. A reference already in the ledger is rejected so each
// reference holds exactly the rows of one posting.
func (w *ledgerWriter) post(ctx context.Context, tx Transaction, p *ledgerPosting) ([]*domain.Transaction, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	if err := w.txRepo.LockReference(ctx, tx, p.ReferenceNo); err != nil {
		return nil, err
	}
	exists, err := w.txRepo.ReferenceExists(ctx, tx, p.ReferenceNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateReference, p.ReferenceNo)
	}

	ids := make([]string, 0, len(p.Legs))
	seen := make(map[string]bool, len(p.Legs))
	for _, leg := range p.Legs {
		if !seen[leg.AccountID] {
			seen[leg.AccountID] = true
			ids = append(ids, leg.AccountID)
		}
	}
	sort.Strings(ids)

	accounts, err := w.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidAccount
		}
		return nil, err
	}
	if len(accounts) != len(ids) {
		return nil, domain.ErrInvalidAccount
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	now := time.Now().UTC()
	date := p.Date
	if date.IsZero() {
		date = now
	}

	rows := make([]*domain.Transaction, 0, len(p.Legs))
	for _, leg := range p.Legs {
		account := byID[leg.AccountID]
		if account == nil {
			return nil, domain.ErrInvalidAccount
		}

		row := &domain.Transaction{
			ID:              w.idGen.Generate(),
			AccountID:       account.ID,
			ReferenceNo:     p.ReferenceNo,
			Description:     p.Description,
			EntryType:       leg.EntryType,
			Kind:            p.Kind,
			Amount:          p.Amount,
			OpeningAmount:   decimal.Zero,
			Item:            p.Item,
			TransactionDate: date,
			CreatedAt:       now,
		}
		if err := row.Validate(); err != nil {
			return nil, err
		}
		if err := w.txRepo.Create(ctx, tx, row); err != nil {
			return nil, err
		}

		account.CurrentBalance = account.ApplyPosting(leg.EntryType, p.Amount)
		if err := w.accountRepo.UpdateBalance(ctx, tx, account.ID, account.CurrentBalance, now); err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	if w.outboxRepo != nil {
		event := domain.NewOutboxEvent(
			w.idGen.Generate(),
			domain.AggregateTypeLedger,
			p.ReferenceNo,
			domain.EventTypeLedgerPosted,
			domain.LedgerPostedPayload(p.ReferenceNo, p.Kind, rows),
			now,
		)
		if err := w.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	return rows, nil
}
