package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubledgerEntry_Chain(t *testing.T) {
	cash := CashInstrument("")

	first := &SubledgerEntry{ID: 1, Instrument: cash, Type: EntryTypeCredit, Amount: decimal.NewFromInt(2000), TransactionDate: day("2024-01-02")}
	require.NoError(t, first.Chain(nil))
	assert.True(t, first.Balance.IsZero())
	assert.True(t, first.BalanceAfter.Equal(decimal.NewFromInt(2000)))

	overdraw := &SubledgerEntry{Instrument: cash, Type: EntryTypeDebit, Amount: decimal.NewFromInt(2500), TransactionDate: day("2024-01-03")}
	err := overdraw.Chain(first)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, overdraw.BalanceAfter.IsZero(), "rejected entry must not be linked")

	second := &SubledgerEntry{ID: 2, Instrument: cash, Type: EntryTypeDebit, Amount: decimal.NewFromInt(2000), TransactionDate: day("2024-01-03")}
	require.NoError(t, second.Chain(first))
	assert.True(t, second.Balance.Equal(decimal.NewFromInt(2000)))
	assert.True(t, second.BalanceAfter.IsZero())
}

func TestSubledgerEntry_ChainRejects(t *testing.T) {
	prev := &SubledgerEntry{ID: 1, BalanceAfter: decimal.NewFromInt(100), TransactionDate: day("2024-03-10")}

	backdated := &SubledgerEntry{Type: EntryTypeCredit, Amount: decimal.NewFromInt(1), TransactionDate: day("2024-03-09")}
	require.ErrorIs(t, backdated.Chain(prev), ErrBackdatedEntry)

	sameDay := &SubledgerEntry{Type: EntryTypeCredit, Amount: decimal.NewFromInt(1), TransactionDate: day("2024-03-10")}
	require.NoError(t, sameDay.Chain(prev))

	zero := &SubledgerEntry{Type: EntryTypeCredit, Amount: decimal.Zero, TransactionDate: day("2024-03-10")}
	require.ErrorIs(t, zero.Chain(prev), ErrInvalidAmount)

	badType := &SubledgerEntry{Type: "X", Amount: decimal.NewFromInt(1), TransactionDate: day("2024-03-10")}
	require.ErrorIs(t, badType.Chain(prev), ErrInvalidEntryType)
}

func TestSubledgerEntry_ChainSameDayStaysAfterPrevious(t *testing.T) {
	cash := CashInstrument("")
	afternoon := day("2024-01-05").Add(15 * time.Hour)

	credit := &SubledgerEntry{ID: 1, Instrument: cash, Type: EntryTypeCredit, Amount: decimal.NewFromInt(100), TransactionDate: afternoon}
	require.NoError(t, credit.Chain(nil))

	// Dated at midnight of the same day, after an afternoon row.
	debit := &SubledgerEntry{ID: 2, Instrument: cash, Type: EntryTypeDebit, Amount: decimal.NewFromInt(100), TransactionDate: day("2024-01-05")}
	require.NoError(t, debit.Chain(credit))
	assert.True(t, debit.TransactionDate.Equal(afternoon), debit.TransactionDate.String())
	assert.True(t, debit.BalanceAfter.IsZero())

	// The debit is now the latest row, so a second debit has nothing to spend.
	again := &SubledgerEntry{ID: 3, Instrument: cash, Type: EntryTypeDebit, Amount: decimal.NewFromInt(100), TransactionDate: day("2024-01-05")}
	require.ErrorIs(t, again.Chain(debit), ErrInsufficientBalance)

	entries := []*SubledgerEntry{credit, debit}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].TransactionDate.Equal(entries[j].TransactionDate) {
			return entries[i].TransactionDate.Before(entries[j].TransactionDate)
		}
		return entries[i].ID < entries[j].ID
	})
	assert.Nil(t, VerifyChain(entries))
}

func TestVerifyChain(t *testing.T) {
	entries := []*SubledgerEntry{
		{ID: 1, Type: EntryTypeCredit, Amount: decimal.NewFromInt(500), Balance: decimal.Zero, BalanceAfter: decimal.NewFromInt(500)},
		{ID: 2, Type: EntryTypeDebit, Amount: decimal.NewFromInt(200), Balance: decimal.NewFromInt(500), BalanceAfter: decimal.NewFromInt(300)},
		{ID: 3, Type: EntryTypeCredit, Amount: decimal.NewFromInt(50), Balance: decimal.NewFromInt(300), BalanceAfter: decimal.NewFromInt(350)},
	}
	assert.Nil(t, VerifyChain(entries))
	assert.Nil(t, VerifyChain(nil))

	entries[2].Balance = decimal.NewFromInt(299)
	brk := VerifyChain(entries)
	require.NotNil(t, brk)
	assert.Equal(t, int64(3), brk.EntryID)
	assert.Equal(t, "balance", brk.Field)

	entries[2].Balance = decimal.NewFromInt(300)
	entries[1].BalanceAfter = decimal.NewFromInt(301)
	brk = VerifyChain(entries)
	require.NotNil(t, brk)
	assert.Equal(t, int64(2), brk.EntryID)
	assert.Equal(t, "balance_after", brk.Field)
	assert.Contains(t, brk.Error(), "expected 300")
}

func TestInstrument_Validate(t *testing.T) {
	require.NoError(t, CashInstrument("").Validate())
	assert.Equal(t, DefaultCashBookID, CashInstrument("").ID)
	require.NoError(t, BankInstrument("B1").Validate())
	require.ErrorIs(t, BankInstrument("").Validate(), ErrBankAccountRequired)
	require.ErrorIs(t, Instrument{Kind: "SAFE", ID: "x"}.Validate(), ErrInvalidInstrument)
	assert.Equal(t, "BANK:B1", BankInstrument("B1").Key())
}

func TestPaymentMode_Instrument(t *testing.T) {
	inst, ok, err := PaymentModeCash.Instrument("")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, InstrumentCash, inst.Kind)

	inst, ok, err = PaymentModeBank.Instrument("B1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, BankInstrument("B1"), inst)

	_, _, err = PaymentModeBank.Instrument("")
	require.ErrorIs(t, err, ErrBankAccountRequired)

	_, ok, err = PaymentModeDirect.Instrument("")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = PaymentMode("CHEQUE").Instrument("")
	require.ErrorIs(t, err, ErrInvalidPaymentMode)
}
