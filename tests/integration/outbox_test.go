package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/eventpublisher"
	"github.com/iho/factoryledger/internal/usecase"
	"github.com/iho/factoryledger/tests/testutil"
)

func TestOutboxPublishesCommittedPostings(t *testing.T) {
	s := testutil.NewStack(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, a := s.Chain(ctx, "Loom Parts", domain.AccountTypeSupplier, decimal.Zero)
	_, _, b := s.Chain(ctx, "Maintenance", domain.AccountTypeExpense, decimal.Zero)

	_, err := s.Postings.PostTransfer(ctx, usecase.PostTransferInput{
		FromAccountID: a.ID, ToAccountID: b.ID, Kind: domain.PostingKindPurchase,
		ReferenceNo: "PUR-OUT-1", Amount: decimal.NewFromInt(60),
	})
	require.NoError(t, err)

	pending, err := s.Outbox.GetUnpublished(ctx, 100)
	require.NoError(t, err)
	types := map[string]int{}
	for _, e := range pending {
		types[e.EventType]++
	}
	assert.Equal(t, 6, types[domain.EventTypeAccountCreated])
	assert.Equal(t, 1, types[domain.EventTypeLedgerPosted])

	sub := s.RedisClient.Subscribe(ctx, eventpublisher.DefaultChannel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	published := 0
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: s.Outbox,
		Publisher:  eventpublisher.NewRedisPublisher(s.RedisClient, ""),
		Logger:     zerolog.Nop(),
		Counters:   eventpublisher.Counters{Published: func() { published++ }},
		Interval:   50 * time.Millisecond,
	})

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- publisher.Start(runCtx) }()

	var posted bool
	for i := 0; i < len(pending) && !posted; i++ {
		select {
		case msg := <-sub.Channel():
			var event struct {
				EventType string `json:"event_type"`
			}
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
			posted = event.EventType == domain.EventTypeLedgerPosted
		case <-ctx.Done():
			t.Fatal("timed out waiting for published events")
		}
	}
	require.True(t, posted)

	require.Eventually(t, func() bool {
		remaining, err := s.Outbox.GetUnpublished(ctx, 100)
		return err == nil && len(remaining) == 0
	}, 5*time.Second, 50*time.Millisecond)

	stop()
	<-done
	assert.Equal(t, len(pending), published)
}
