package domain

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// SourceType tags where a cash-flow item came from.
type SourceType string

const (
	SourceCash    SourceType = "CASH"
	SourceBank    SourceType = "BANK"
	SourceExpense SourceType = "EXPENSE"
	SourcePayment SourceType = "PAYMENT"
)

// Valid reports whether s is a known source.
func (s SourceType) Valid() bool {
	switch s {
	case SourceCash, SourceBank, SourceExpense, SourcePayment:
		return true
	}
	return false
}

func (s SourceType) rank() int {
	switch s {
	case SourceCash:
		return 0
	case SourceBank:
		return 1
	case SourcePayment:
		return 2
	default:
		return 3
	}
}

// CashFlowItem is one movement in the merged cash-flow view.
type CashFlowItem struct {
	ID             string
	Date           time.Time
	FlowType       EntryType
	SourceType     SourceType
	Instrument     Instrument
	InstrumentName string
	Reference      string
	Description    string
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
	Linked         bool
	seq            int64
}

// CashFlowItemFromEntry converts a subledger row into a cash-flow item.
func CashFlowItemFromEntry(e *SubledgerEntry) CashFlowItem {
	source := SourceCash
	if e.Instrument.Kind == InstrumentBank {
		source = SourceBank
	}
	switch e.Origin {
	case OriginPayment:
		source = SourcePayment
	case OriginExpense:
		source = SourceExpense
	}

	return CashFlowItem{
		ID:             e.Instrument.Key() + ":" + strconv.FormatInt(e.ID, 10),
		Date:           e.TransactionDate,
		FlowType:       e.Type,
		SourceType:     source,
		Instrument:     e.Instrument,
		InstrumentName: e.InstrumentName,
		Reference:      e.Reference,
		Description:    e.Remarks,
		Amount:         e.Amount,
		Linked:         e.IsLinkedLeg(),
		seq:            e.ID,
	}
}

// CashFlowItemFromExpense converts an expense with no subledger leg into a
// cash-flow debit.
func CashFlowItemFromExpense(e *Expense) CashFlowItem {
	return CashFlowItem{
		ID:          "EXPENSE:" + e.ID,
		Date:        e.ExpenseDate,
		FlowType:    EntryTypeDebit,
		SourceType:  SourceExpense,
		Reference:   e.VoucherNo,
		Description: e.Description,
		Amount:      e.Amount,
		seq:         e.CreatedAt.UnixNano(),
	}
}

// CashFlowFilter narrows the merged view. Zero values mean no filter.
// Linked cash legs of bank/cash transfers are dropped unless
// IncludeLinkedLegs is set.
type CashFlowFilter struct {
	StartDate         *time.Time
	EndDate           *time.Time
	FlowType          EntryType
	SourceType        SourceType
	IncludeLinkedLegs bool
}

// Keep reports whether item passes the filter.
func (f CashFlowFilter) Keep(item CashFlowItem) bool {
	if f.StartDate != nil && item.Date.Before(StartOfDay(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && !item.Date.Before(NextDay(*f.EndDate)) {
		return false
	}
	if f.FlowType != "" && item.FlowType != f.FlowType {
		return false
	}
	if f.SourceType != "" && item.SourceType != f.SourceType {
		return false
	}
	if !f.IncludeLinkedLegs && item.Linked && item.Instrument.Kind == InstrumentCash {
		return false
	}
	return true
}

// CashFlowSummary totals a cash-flow view.
type CashFlowSummary struct {
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
	Net         decimal.Decimal
}

// CashFlowReport is the merged, ordered view with its summary.
type CashFlowReport struct {
	Items   []CashFlowItem
	Summary CashFlowSummary
}

// BuildCashFlow filters items, orders them by date, and computes the running
// balance and summary over what remains.
func BuildCashFlow(items []CashFlowItem, filter CashFlowFilter) CashFlowReport {
	kept := make([]CashFlowItem, 0, len(items))
	for _, item := range items {
		if filter.Keep(item) {
			kept = append(kept, item)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SourceType.rank() != b.SourceType.rank() {
			return a.SourceType.rank() < b.SourceType.rank()
		}
		return a.seq < b.seq
	})

	summary := CashFlowSummary{TotalCredit: decimal.Zero, TotalDebit: decimal.Zero}
	running := decimal.Zero
	for i := range kept {
		if kept[i].FlowType == EntryTypeCredit {
			summary.TotalCredit = summary.TotalCredit.Add(kept[i].Amount)
		} else {
			summary.TotalDebit = summary.TotalDebit.Add(kept[i].Amount)
		}
		running = running.Add(kept[i].FlowType.Signed(kept[i].Amount))
		kept[i].RunningBalance = running
	}
	summary.Net = summary.TotalCredit.Sub(summary.TotalDebit)

	return CashFlowReport{Items: kept, Summary: summary}
}
