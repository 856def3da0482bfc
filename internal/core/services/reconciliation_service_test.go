package services_test

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, date, amount string) dto.ReconciliationItemRequest {
	return dto.ReconciliationItemRequest{ItemID: id, Date: date, Amount: decimal.RequireFromString(amount)}
}

func TestReconciliationService_MatchAndSummarize(t *testing.T) {
	f := newLedgerFixture(t)

	snap, err := f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "USD",
		BookItems:    []dto.ReconciliationItemRequest{item("b1", "2024-01-02", "100.00"), item("b2", "2024-01-03", "-40.00")},
		BankItems:    []dto.ReconciliationItemRequest{item("k1", "2024-01-04", "100.00"), item("k2", "2024-01-05", "-40.00")},
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Tolerance)
	assert.Equal(t, 2, snap.Summary.UnmatchedBookCount)

	snap, err = f.svc.Reconciliation.Match(f.ctx, testLedgerID, snap.SessionID, "b1", "k1")
	require.NoError(t, err)
	assert.True(t, snap.BookItems[0].IsMatched)
	assert.Equal(t, "k1", *snap.BookItems[0].MatchID)
	assert.Equal(t, "b1", *snap.BankItems[0].MatchID)

	_, err = f.svc.Reconciliation.Match(f.ctx, testLedgerID, snap.SessionID, "b1", "k2")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMatched)
	_, err = f.svc.Reconciliation.Match(f.ctx, testLedgerID, snap.SessionID, "k2", "b2")
	assert.ErrorIs(t, err, apperrors.ErrMatchNotFound)

	_, err = f.svc.Reconciliation.Match(f.ctx, testLedgerID, snap.SessionID, "b2", "k2")
	require.NoError(t, err)
	sum, err := f.svc.Reconciliation.Summarize(f.ctx, testLedgerID, snap.SessionID)
	require.NoError(t, err)
	assert.True(t, sum.IsReconciled)
	assert.Equal(t, int64(6000), sum.BookBalance.Amount)
	assert.Equal(t, int64(0), sum.Difference.Amount)

	snap, err = f.svc.Reconciliation.Unmatch(f.ctx, testLedgerID, snap.SessionID, "k1")
	require.NoError(t, err)
	assert.False(t, snap.BookItems[0].IsMatched)
	assert.Nil(t, snap.BookItems[0].MatchID)
	// Both unmatched sides still carry equal totals.
	assert.True(t, snap.Summary.IsReconciled)

	_, err = f.svc.Reconciliation.Unmatch(f.ctx, testLedgerID, snap.SessionID, "k1")
	assert.NoError(t, err)
	_, err = f.svc.Reconciliation.Unmatch(f.ctx, testLedgerID, snap.SessionID, "nope")
	assert.ErrorIs(t, err, apperrors.ErrMatchNotFound)
}

func TestReconciliationService_ToleranceAndAdjustments(t *testing.T) {
	f := newLedgerFixture(t)

	snap, err := f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "USD",
		BookItems:    []dto.ReconciliationItemRequest{item("b1", "2024-01-02", "100.00")},
		BankItems:    []dto.ReconciliationItemRequest{item("k1", "2024-01-02", "100.00"), item("k2", "2024-01-31", "-0.01")},
	}, "user-1")
	require.NoError(t, err)
	_, err = f.svc.Reconciliation.Match(f.ctx, testLedgerID, snap.SessionID, "b1", "k1")
	require.NoError(t, err)

	sum, err := f.svc.Reconciliation.Summarize(f.ctx, testLedgerID, snap.SessionID)
	require.NoError(t, err)
	assert.False(t, sum.IsReconciled, "a one-cent gap is not below a one-cent tolerance")

	snap, err = f.svc.Reconciliation.AddAdjustment(f.ctx, testLedgerID, snap.SessionID, item("", "2024-01-31", "-0.01"))
	require.NoError(t, err)
	require.Len(t, snap.BookItems, 2)
	assert.True(t, snap.BookItems[1].IsAdjustment)
	assert.NotEmpty(t, snap.BookItems[1].ItemID)
	assert.True(t, snap.Summary.IsReconciled)

	_, err = f.svc.Reconciliation.AddAdjustment(f.ctx, testLedgerID, snap.SessionID, item("k1", "2024-01-31", "1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidSession)

	zero := int64(0)
	_, err = f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{CurrencyCode: "USD", ToleranceMinor: &zero}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReconciliationService_DerivesBookItemsFromLedger(t *testing.T) {
	f := newLedgerFixture(t)
	deposit := f.post("2024-01-05", "1000", "4000", "200")
	f.post("2024-01-08", "5000", "1000", "75")
	f.post("2024-01-09", "5000", "2000", "30") // not on cash

	snap, err := f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "USD",
		AccountID:    f.id("1000"),
		From:         "2024-01-01",
		To:           "2024-01-31",
		BankItems:    []dto.ReconciliationItemRequest{item("k1", "2024-01-08", "-75"), item("k2", "2024-01-06", "200")},
	}, "user-1")
	require.NoError(t, err)
	require.Len(t, snap.BookItems, 2)
	assert.Equal(t, int64(20000), snap.BookItems[0].Amount.Amount)
	assert.Equal(t, deposit.EntryNumber, snap.BookItems[0].Reference)
	assert.Equal(t, int64(-7500), snap.BookItems[1].Amount.Amount)

	suggestions, err := f.svc.Reconciliation.SuggestMatches(f.ctx, testLedgerID, snap.SessionID)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "k1", suggestions[0].BankItemID)
	assert.Equal(t, 0, suggestions[0].DaysApart)
	assert.Equal(t, "k2", suggestions[1].BankItemID)
	assert.Equal(t, 1, suggestions[1].DaysApart)

	_, err = f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "EUR", AccountID: f.id("1000"),
	}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSession)
}

func TestReconciliationService_SessionsAreScopedToLedger(t *testing.T) {
	f := newLedgerFixture(t)
	snap, err := f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{CurrencyCode: "USD"}, "user-1")
	require.NoError(t, err)

	_, err = f.svc.Reconciliation.GetSession(f.ctx, "other-ledger", snap.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, f.svc.Reconciliation.CloseSession(f.ctx, testLedgerID, snap.SessionID))
	_, err = f.svc.Reconciliation.GetSession(f.ctx, testLedgerID, snap.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestReconciliationService_TotalsAtInt64Bounds(t *testing.T) {
	f := newLedgerFixture(t)
	const mostNegative = "-92233720368547758.07" // -MaxInt64 cents

	// The unmatched gap would be MinInt64, whose absolute value does not exist.
	_, err := f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "USD",
		BookItems:    []dto.ReconciliationItemRequest{item("b1", "2024-01-02", mostNegative)},
		BankItems:    []dto.ReconciliationItemRequest{item("k1", "2024-01-02", "0.01")},
	}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSession)
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)

	_, err = f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "USD",
		BookItems:    []dto.ReconciliationItemRequest{item("b1", "2024-01-02", "-92233720368547758.08")},
	}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSession)

	snap, err := f.svc.Reconciliation.OpenSession(f.ctx, testLedgerID, dto.OpenSessionRequest{
		CurrencyCode: "USD",
		BookItems:    []dto.ReconciliationItemRequest{item("b1", "2024-01-02", mostNegative)},
		BankItems:    []dto.ReconciliationItemRequest{item("k1", "2024-01-02", "0.00")},
	}, "user-1")
	require.NoError(t, err)
	assert.False(t, snap.Summary.IsReconciled)

	_, err = f.svc.Reconciliation.AddAdjustment(f.ctx, testLedgerID, snap.SessionID, item("fee", "2024-01-03", "-0.01"))
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)

	after, err := f.svc.Reconciliation.GetSession(f.ctx, testLedgerID, snap.SessionID)
	require.NoError(t, err)
	assert.Len(t, after.BookItems, 1)
	assert.False(t, after.Summary.IsReconciled)
}
