package services_test

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodService_CreateRejectsOverlapAndBadRange(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Period.CreatePeriod(f.ctx, testLedgerID, dto.CreatePeriodRequest{
		Name: "Overlap", StartDate: "2024-01-31", EndDate: "2024-02-28",
	}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrPeriodOverlap)

	_, err = f.svc.Period.CreatePeriod(f.ctx, testLedgerID, dto.CreatePeriodRequest{
		Name: "Backwards", StartDate: "2024-03-31", EndDate: "2024-03-01",
	}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)

	feb := f.createPeriod("February", "2024-02-01", "2024-02-29")
	assert.Equal(t, domain.PeriodOpen, feb.Status)
	assert.Equal(t, 2024, feb.FiscalYear)

	periods, err := f.svc.Period.ListPeriods(f.ctx, testLedgerID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "January", periods[0].Name)
}

func TestPeriodService_CloseSnapshotsTotals(t *testing.T) {
	f := newLedgerFixture(t)
	f.post("2024-01-05", "1000", "4000", "100")
	f.post("2024-01-06", "1100", "4100", "7.50")

	closed, err := f.svc.Period.ClosePeriod(f.ctx, testLedgerID, f.january.PeriodID, "closer")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodClosed, closed.Status)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, "closer", *closed.ClosedBy)
	assert.Equal(t, f.clock.Now(), *closed.ClosedAt)
	require.Len(t, closed.ClosingTotals, 2)
	assert.Equal(t, "EUR", closed.ClosingTotals[0].Currency)
	assert.Equal(t, int64(750), closed.ClosingTotals[0].Debit.Amount)
	assert.Equal(t, int64(10000), closed.ClosingTotals[1].Credit.Amount)

	reopened, err := f.svc.Period.ReopenPeriod(f.ctx, testLedgerID, f.january.PeriodID, "closer")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, reopened.Status)
	assert.Nil(t, reopened.ClosedAt)
	assert.Empty(t, reopened.ClosingTotals)
}

func TestPeriodService_Transitions(t *testing.T) {
	f := newLedgerFixture(t)
	id := f.january.PeriodID

	_, err := f.svc.Period.LockPeriod(f.ctx, testLedgerID, id, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = f.svc.Period.ReopenPeriod(f.ctx, testLedgerID, id, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.svc.Period.ClosePeriod(f.ctx, testLedgerID, id, "user-1")
	require.NoError(t, err)
	locked, err := f.svc.Period.LockPeriod(f.ctx, testLedgerID, id, "auditor")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodLocked, locked.Status)
	assert.Equal(t, "auditor", *locked.LockedBy)

	for _, op := range []func() error{
		func() error { _, err := f.svc.Period.ReopenPeriod(f.ctx, testLedgerID, id, "user-1"); return err },
		func() error { _, err := f.svc.Period.ClosePeriod(f.ctx, testLedgerID, id, "user-1"); return err },
		func() error { _, err := f.svc.Period.LockPeriod(f.ctx, testLedgerID, id, "user-1"); return err },
	} {
		assert.ErrorIs(t, op(), apperrors.ErrInvalidTransition)
	}

	_, err = f.svc.Period.ClosePeriod(f.ctx, testLedgerID, "missing", "user-1")
	assert.ErrorIs(t, err, apperrors.ErrPeriodNotFound)
}

func TestPeriodService_AssertPostable(t *testing.T) {
	f := newLedgerFixture(t)

	p, err := f.svc.Period.AssertPostable(f.ctx, testLedgerID, "", jan(31))
	require.NoError(t, err)
	assert.Equal(t, f.january.PeriodID, p.PeriodID)

	_, err = f.svc.Period.AssertPostable(f.ctx, testLedgerID, "", jan(1).AddDate(0, 0, -1))
	assert.ErrorIs(t, err, apperrors.ErrNoPeriodDefined)

	_, err = f.svc.Period.ClosePeriod(f.ctx, testLedgerID, f.january.PeriodID, "user-1")
	require.NoError(t, err)
	_, err = f.svc.Period.AssertPostable(f.ctx, testLedgerID, f.january.PeriodID, jan(15))
	assert.ErrorIs(t, err, apperrors.ErrPeriodNotOpen)
}
