package domain

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func period(id, start, end string, status PeriodStatus) AccountingPeriod {
	return AccountingPeriod{PeriodID: id, Name: id, StartDate: day(start), EndDate: day(end), Status: status}
}

func TestPeriodTransitions(t *testing.T) {
	tests := []struct {
		from, to PeriodStatus
		allowed  bool
	}{
		{PeriodOpen, PeriodClosed, true},
		{PeriodClosed, PeriodLocked, true},
		{PeriodClosed, PeriodOpen, true},
		{PeriodOpen, PeriodLocked, false},
		{PeriodOpen, PeriodOpen, false},
		{PeriodLocked, PeriodOpen, false},
		{PeriodLocked, PeriodClosed, false},
		{PeriodLocked, PeriodLocked, false},
		{PeriodClosed, PeriodClosed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))

			p := AccountingPeriod{PeriodID: "p", Status: tt.from}
			err := p.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, p.Status)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
				assert.Equal(t, tt.from, p.Status)
			}
		})
	}
}

func TestPeriodOverlap(t *testing.T) {
	jan := period("jan", "2024-01-01", "2024-01-31", PeriodOpen)

	assert.True(t, jan.Overlaps(period("b", "2024-01-15", "2024-02-15", PeriodOpen)))
	assert.True(t, jan.Overlaps(period("b", "2024-01-31", "2024-02-28", PeriodOpen)), "shared end day overlaps")
	assert.True(t, jan.Overlaps(period("b", "2023-12-01", "2024-03-01", PeriodOpen)))
	assert.False(t, jan.Overlaps(period("feb", "2024-02-01", "2024-02-29", PeriodOpen)))

	found, ok := FindOverlapping([]AccountingPeriod{jan}, period("b", "2024-01-15", "2024-02-15", PeriodOpen))
	require.True(t, ok)
	assert.Equal(t, "jan", found.PeriodID)
}

func TestPeriodValidateRange(t *testing.T) {
	assert.NoError(t, period("p", "2024-01-01", "2024-01-31", PeriodOpen).ValidateRange())
	assert.ErrorIs(t, period("p", "2024-01-31", "2024-01-31", PeriodOpen).ValidateRange(), apperrors.ErrInvalidRange)
	assert.ErrorIs(t, period("p", "2024-02-01", "2024-01-31", PeriodOpen).ValidateRange(), apperrors.ErrInvalidRange)
	assert.ErrorIs(t, AccountingPeriod{}.ValidateRange(), apperrors.ErrInvalidRange)
}

func TestAssertPostable(t *testing.T) {
	periods := []AccountingPeriod{
		period("jan", "2024-01-01", "2024-01-31", PeriodClosed),
		period("feb", "2024-02-01", "2024-02-29", PeriodOpen),
		period("mar", "2024-03-01", "2024-03-31", PeriodLocked),
	}

	p, err := AssertPostable(periods, "", day("2024-02-29").Add(23*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "feb", p.PeriodID)

	_, err = AssertPostable(periods, "feb", day("2024-02-01"))
	assert.NoError(t, err)

	_, err = AssertPostable(periods, "", day("2024-01-15"))
	assert.ErrorIs(t, err, apperrors.ErrPeriodNotOpen)
	kind, ok := apperrors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.KindPeriod, kind)

	_, err = AssertPostable(periods, "", day("2024-03-31"))
	assert.ErrorIs(t, err, apperrors.ErrPeriodNotOpen)

	_, err = AssertPostable(periods, "", day("2024-04-01"))
	assert.ErrorIs(t, err, apperrors.ErrNoPeriodDefined)

	_, err = AssertPostable(periods, "jan", day("2024-02-10"))
	assert.ErrorIs(t, err, apperrors.ErrPeriodMismatch)
}
