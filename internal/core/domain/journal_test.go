package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalLineSides(t *testing.T) {
	l := JournalLine{AccountID: "cash", Debit: NewMoney(100, "USD"), Credit: Zero("USD")}
	assert.Equal(t, DebitSide, l.Side())
	assert.Equal(t, NewMoney(100, "USD"), l.Amount())

	s := l.Swapped()
	assert.Equal(t, CreditSide, s.Side())
	assert.Equal(t, NewMoney(100, "USD"), s.Credit)
	assert.True(t, s.Debit.IsZero())
}

func TestJournalEntryTotals(t *testing.T) {
	e := JournalEntry{CurrencyCode: "USD", Lines: []JournalLine{
		{Debit: NewMoney(50000, "USD"), Credit: Zero("USD")},
		{Debit: Zero("USD"), Credit: NewMoney(30000, "USD")},
		{Debit: Zero("USD"), Credit: NewMoney(20000, "USD")},
	}}
	d, c, err := e.Totals()
	require.NoError(t, err)
	assert.Equal(t, int64(50000), d.Amount)
	assert.Equal(t, int64(50000), c.Amount)
}

func TestFormatEntryNumber(t *testing.T) {
	assert.Equal(t, "JE-000001", FormatEntryNumber(1))
	assert.Equal(t, "JE-1234567", FormatEntryNumber(1234567))
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
	assert.True(t, r.Contains(time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, DateRange{}.Contains(time.Now()))
}

func TestTotalsAccumulator(t *testing.T) {
	var acc TotalsAccumulator
	require.NoError(t, acc.Add(NewMoney(100, "USD"), Zero("USD")))
	require.NoError(t, acc.Add(Zero("USD"), NewMoney(100, "USD")))
	require.NoError(t, acc.Add(NewMoney(7, "EUR"), Zero("EUR")))

	got := acc.Result()
	require.Len(t, got, 2)
	assert.Equal(t, "EUR", got[0].Currency)
	assert.Equal(t, int64(7), got[0].Debit.Amount)
	assert.Equal(t, int64(100), got[1].Credit.Amount)

	tb := TrialBalance{Totals: got}
	assert.False(t, tb.IsBalanced())
}
