package domain

import "time"

// Event types
const (
	EventTypeAccountCreated    = "account.created"
	EventTypeAccountUpdated    = "account.updated"
	EventTypeAccountDeleted    = "account.deleted"
	EventTypeLedgerPosted      = "ledger.posted"
	EventTypeSubledgerAppended = "subledger.appended"
	EventTypePaymentRecorded   = "payment.recorded"
	EventTypeExpenseRecorded   = "expense.recorded"
)

// Aggregate types
const (
	AggregateTypeAccount   = "account"
	AggregateTypeLedger    = "ledger"
	AggregateTypeSubledger = "subledger"
	AggregateTypePayment   = "payment"
	AggregateTypeExpense   = "expense"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewOutboxEvent builds an unpublished event.
func NewOutboxEvent(id, aggregateType, aggregateID, eventType string, payload map[string]any, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     at,
	}
}

// LedgerPostedPayload describes the rows written by one posting.
func LedgerPostedPayload(referenceNo string, kind PostingKind, rows []*Transaction) map[string]any {
	legs := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		legs = append(legs, map[string]any{
			"transaction_id": r.ID,
			"account_id":     r.AccountID,
			"entry_type":     string(r.EntryType),
			"amount":         r.Amount.String(),
		})
	}
	return map[string]any{
		"reference_no": referenceNo,
		"kind":         string(kind),
		"legs":         legs,
	}
}

// SubledgerAppendedPayload describes one subledger row.
func SubledgerAppendedPayload(e *SubledgerEntry) map[string]any {
	payload := map[string]any{
		"instrument":    e.Instrument.Key(),
		"type":          string(e.Type),
		"amount":        e.Amount.String(),
		"balance_after": e.BalanceAfter.String(),
		"reference":     e.Reference,
		"origin":        string(e.Origin),
	}
	if e.TransferGroupID != nil {
		payload["transfer_group_id"] = *e.TransferGroupID
	}
	return payload
}
