package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Net balance labels.
const (
	NetCredit = "CR"
	NetDebit  = "DB"
)

// EndOfTime is later than any posting date.
var EndOfTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns midnight UTC of the day after t. A window ending on t
// covers everything strictly before NextDay(t).
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// ValidateDateRange checks that start is not after end.
func ValidateDateRange(start, end time.Time) error {
	if StartOfDay(start).After(StartOfDay(end)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Movement is the debit and credit volume inside a window.
type Movement struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Net returns credit minus debit.
func (m Movement) Net() decimal.Decimal {
	return m.Credit.Sub(m.Debit)
}

// Add sums two movements.
func (m Movement) Add(o Movement) Movement {
	return Movement{Debit: m.Debit.Add(o.Debit), Credit: m.Credit.Add(o.Credit)}
}

// NetLabel returns CR for a non-negative net and DB otherwise.
func NetLabel(net decimal.Decimal) string {
	if net.IsNegative() {
		return NetDebit
	}
	return NetCredit
}

// AccountBalance is the opening, movement and closing of one account (or
// one subtree) over [StartDate, EndDate].
type AccountBalance struct {
	AccountID   string
	Name        string
	BalanceType BalanceType
	Level       int
	StartDate   time.Time
	EndDate     time.Time
	Opening     decimal.Decimal
	Movement    Movement
	Closing     decimal.Decimal
}

// Add folds another balance of the same window into b.
func (b *AccountBalance) Add(o *AccountBalance) {
	b.Opening = b.Opening.Add(o.Opening)
	b.Movement = b.Movement.Add(o.Movement)
	b.Closing = b.Closing.Add(o.Closing)
}

// Consistent reports whether Opening + credit - debit equals Closing.
func (b *AccountBalance) Consistent() bool {
	return b.Opening.Add(b.Movement.Net()).Equal(b.Closing)
}

// StatementLine is a ledger row with the running balance after it.
type StatementLine struct {
	Transaction *Transaction
	Balance     decimal.Decimal
}

// BuildStatement walks rows in order from opening and returns each row with
// its running balance, plus the final balance.
func BuildStatement(opening decimal.Decimal, rows []*Transaction) ([]StatementLine, decimal.Decimal) {
	running := opening
	lines := make([]StatementLine, 0, len(rows))
	for _, row := range rows {
		running = running.Add(row.Signed())
		lines = append(lines, StatementLine{Transaction: row, Balance: running})
	}
	return lines, running
}
