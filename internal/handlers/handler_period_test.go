package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PeriodHandlerTestSuite struct {
	HandlerTestSuite
}

func januaryPeriod(status domain.PeriodStatus) *domain.AccountingPeriod {
	return &domain.AccountingPeriod{
		PeriodID:   "jan",
		LedgerID:   testLedgerID,
		Name:       "January 2024",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear: 2024,
		Status:     status,
	}
}

func (suite *PeriodHandlerTestSuite) TestCreatePeriod() {
	req := dto.CreatePeriodRequest{Name: "January 2024", StartDate: "2024-01-01", EndDate: "2024-01-31"}
	suite.periods.On("CreatePeriod", mock.Anything, testLedgerID, req, testUserID).Return(januaryPeriod(domain.PeriodOpen), nil).Once()

	w := suite.do(http.MethodPost, "/periods", req)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.PeriodResponse
	suite.decode(w, &body)
	suite.Equal("2024-01-01", body.StartDate)
	suite.Equal("2024-01-31", body.EndDate)
	suite.Equal(domain.PeriodOpen, body.Status)
}

func (suite *PeriodHandlerTestSuite) TestCreatePeriod_Overlap() {
	req := dto.CreatePeriodRequest{Name: "Late January", StartDate: "2024-01-15", EndDate: "2024-02-15"}
	suite.periods.On("CreatePeriod", mock.Anything, testLedgerID, req, testUserID).Return(nil, apperrors.ErrPeriodOverlap).Once()

	w := suite.do(http.MethodPost, "/periods", req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PeriodHandlerTestSuite) TestCreatePeriod_BadDate() {
	w := suite.do(http.MethodPost, "/periods", map[string]string{"name": "x", "startDate": "01/01/2024", "endDate": "2024-01-31"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PeriodHandlerTestSuite) TestTransitions() {
	closed := januaryPeriod(domain.PeriodClosed)
	closed.ClosingTotals = []domain.Totals{{Currency: "USD", Debit: domain.NewMoney(100, "USD"), Credit: domain.NewMoney(100, "USD")}}
	suite.periods.On("ClosePeriod", mock.Anything, testLedgerID, "jan", testUserID).Return(closed, nil).Once()
	suite.periods.On("LockPeriod", mock.Anything, testLedgerID, "jan", testUserID).Return(januaryPeriod(domain.PeriodLocked), nil).Once()
	suite.periods.On("ReopenPeriod", mock.Anything, testLedgerID, "jan", testUserID).Return(nil, apperrors.ErrInvalidTransition).Once()

	w := suite.do(http.MethodPost, "/periods/jan/close", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body dto.PeriodResponse
	suite.decode(w, &body)
	suite.Require().Len(body.ClosingTotals, 1)
	suite.Equal(int64(100), body.ClosingTotals[0].Debit.MinorUnits)

	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/periods/jan/lock", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodPost, "/periods/jan/reopen", nil).Code)
}

func (suite *PeriodHandlerTestSuite) TestCheckPostable() {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	suite.periods.On("AssertPostable", mock.Anything, testLedgerID, "jan", date).Return(januaryPeriod(domain.PeriodOpen), nil).Once()
	suite.periods.On("AssertPostable", mock.Anything, testLedgerID, "", date).Return(nil, apperrors.ErrPeriodNotOpen).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/periods/postable?date=2024-01-15&periodID=jan", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodGet, "/periods/postable?date=2024-01-15", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/periods/postable", nil).Code)
}

func (suite *PeriodHandlerTestSuite) TestGetAndList() {
	suite.periods.On("GetPeriod", mock.Anything, testLedgerID, "feb").Return(nil, apperrors.ErrPeriodNotFound).Once()
	suite.periods.On("ListPeriods", mock.Anything, testLedgerID).Return([]domain.AccountingPeriod{*januaryPeriod(domain.PeriodOpen)}, nil).Once()

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/periods/feb", nil).Code)

	w := suite.do(http.MethodGet, "/periods", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListPeriodsResponse
	suite.decode(w, &body)
	suite.Len(body.Periods, 1)
}

func TestPeriodHandler(t *testing.T) {
	suite.Run(t, new(PeriodHandlerTestSuite))
}
