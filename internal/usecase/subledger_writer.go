package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/iho/factoryledger/internal/domain"
)

// subledgerWriter appends rows to cash and bank subledgers inside a
// caller-owned database transaction.
type subledgerWriter struct {
	repo       SubledgerRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// append locks every instrument touched by entries in key order, then links
// and inserts the entries in the order given. Each entry's Balance and
// BalanceAfter are filled in. A rejected entry aborts the whole batch.
func (w *subledgerWriter) append(ctx context.Context, tx Transaction, entries ...*domain.SubledgerEntry) error {
	instruments := make(map[string]domain.Instrument, len(entries))
	for _, e := range entries {
		if err := e.Instrument.Validate(); err != nil {
			return err
		}
		if err := domain.ValidateDescription(e.Remarks); err != nil {
			return err
		}
		instruments[e.Instrument.Key()] = e.Instrument
	}

	keys := make([]string, 0, len(instruments))
	for k := range instruments {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	latest := make(map[string]*domain.SubledgerEntry, len(keys))
	for _, k := range keys {
		if err := w.repo.LockInstrument(ctx, tx, instruments[k]); err != nil {
			return err
		}
		last, err := w.repo.Latest(ctx, tx, instruments[k])
		if err != nil {
			return err
		}
		latest[k] = last
	}

	now := time.Now().UTC()
	for _, e := range entries {
		if e.TransactionDate.IsZero() {
			e.TransactionDate = now
		}
		if e.Origin == "" {
			e.Origin = domain.OriginManual
		}

		key := e.Instrument.Key()
		if err := e.Chain(latest[key]); err != nil {
			return err
		}

		e.CreatedAt = now
		if err := w.repo.Append(ctx, tx, e); err != nil {
			return err
		}
		if err := w.repo.UpdateInstrumentBalance(ctx, tx, e.Instrument, e.BalanceAfter, now); err != nil {
			return err
		}
		latest[key] = e

		if w.outboxRepo != nil {
			event := domain.NewOutboxEvent(
				w.idGen.Generate(),
				domain.AggregateTypeSubledger,
				key,
				domain.EventTypeSubledgerAppended,
				domain.SubledgerAppendedPayload(e),
				now,
			)
			if err := w.outboxRepo.Create(ctx, tx, event); err != nil {
				return err
			}
		}
	}

	return nil
}
