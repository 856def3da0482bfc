package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalHandlerTestSuite struct {
	HandlerTestSuite
}

func entryBody(status string) map[string]any {
	body := map[string]any{
		"date":         "2024-01-15",
		"description":  "Office rent",
		"currencyCode": "USD",
		"lines": []map[string]any{
			{"accountID": "rent", "debit": "500.00"},
			{"accountID": "cash", "credit": "500.00"},
		},
	}
	if status != "" {
		body["status"] = status
	}
	return body
}

func postedEntry(id string) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      id,
		LedgerID:     testLedgerID,
		EntryNumber:  "JE-000001",
		EntryDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Status:       domain.Posted,
		Lines: []domain.JournalLine{
			{LineID: "l1", AccountID: "rent", Debit: domain.NewMoney(50000, "USD"), Credit: domain.Zero("USD")},
			{LineID: "l2", AccountID: "cash", Debit: domain.Zero("USD"), Credit: domain.NewMoney(50000, "USD")},
		},
	}
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Posted() {
	suite.journals.On("CreateEntry", mock.Anything, testLedgerID,
		mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
			return len(r.Lines) == 2 && r.Lines[0].Debit.StringFixed(2) == "500.00" && r.Status == ""
		}), testUserID).
		Return(postedEntry("je-1"), nil).Once()

	w := suite.do(http.MethodPost, "/journals", entryBody(""))

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.JournalEntryResponse
	suite.decode(w, &body)
	suite.Equal("JE-000001", body.EntryNumber)
	suite.Equal(domain.Posted, body.Status)
	suite.Equal("2024-01-15", body.Date)
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_ErrorMapping() {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: debits 5.00 USD, credits 4.00 USD", apperrors.ErrUnbalanced), http.StatusBadRequest, "unbalanced"},
		{apperrors.ErrPeriodNotOpen, http.StatusConflict, "period_not_open"},
		{apperrors.ErrNoPeriodDefined, http.StatusConflict, "no_period_defined"},
		{apperrors.ErrPeriodMismatch, http.StatusBadRequest, "period_mismatch"},
	}
	for _, tc := range cases {
		suite.Run(tc.code, func() {
			suite.journals.On("CreateEntry", mock.Anything, testLedgerID, mock.Anything, testUserID).
				Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/journals", entryBody(""))

			suite.Equal(tc.status, w.Code)
			var body map[string]string
			suite.decode(w, &body)
			suite.Equal(tc.code, body["code"])
		})
	}
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_RejectsUnknownStatus() {
	w := suite.do(http.MethodPost, "/journals", entryBody("REVERSED"))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.journals.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *JournalHandlerTestSuite) TestInternalErrorsAreHidden() {
	suite.journals.On("GetEntry", mock.Anything, testLedgerID, "je-1").
		Return(nil, fmt.Errorf("pq: connection refused")).Once()

	w := suite.do(http.MethodGet, "/journals/je-1", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
}

func (suite *JournalHandlerTestSuite) TestValidateEntry() {
	accounts := map[string]domain.Account{
		"rent": {AccountID: "rent", LedgerID: testLedgerID, Code: "5000", AccountType: domain.Expense, CurrencyCode: "USD", IsActive: true},
		"cash": {AccountID: "cash", LedgerID: testLedgerID, Code: "1000", AccountType: domain.Asset, CurrencyCode: "USD", IsActive: true},
	}
	validated, err := accounting.ValidateEntry(*postedEntry(""), accounts)
	suite.Require().NoError(err)
	suite.journals.On("ValidateEntry", mock.Anything, testLedgerID, mock.AnythingOfType("dto.CreateJournalEntryRequest")).
		Return(validated, nil).Once()

	w := suite.do(http.MethodPost, "/journals/validate", entryBody(""))

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ValidateEntryResponse
	suite.decode(w, &body)
	suite.True(body.Valid)
	suite.Equal(int64(50000), body.Total.MinorUnits)
	suite.Equal(int64(50000), body.BalanceChanges["rent"].MinorUnits)
	suite.Equal(int64(-50000), body.BalanceChanges["cash"].MinorUnits)
}

func (suite *JournalHandlerTestSuite) TestListEntries_PassesParams() {
	next := "token-2"
	suite.journals.On("ListEntries", mock.Anything, testLedgerID,
		mock.MatchedBy(func(p dto.ListJournalsParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "token-1" && p.Status == domain.Posted
		})).
		Return(&dto.ListJournalsResponse{Entries: []dto.JournalEntryResponse{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/journals?limit=5&nextToken=token-1&status=POSTED", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListJournalsResponse
	suite.decode(w, &body)
	suite.Require().NotNil(body.NextToken)
	suite.Equal(next, *body.NextToken)
}

func (suite *JournalHandlerTestSuite) TestListEntries_DefaultLimit() {
	suite.journals.On("ListEntries", mock.Anything, testLedgerID,
		mock.MatchedBy(func(p dto.ListJournalsParams) bool { return p.Limit == 20 })).
		Return(&dto.ListJournalsResponse{Entries: []dto.JournalEntryResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/journals", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *JournalHandlerTestSuite) TestListEntries_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/journals?limit=1000", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JournalHandlerTestSuite) TestPostDraft_WithAndWithoutBody() {
	posted := postedEntry("je-1")
	suite.journals.On("PostDraft", mock.Anything, testLedgerID, "je-1", "", testUserID).Return(posted, nil).Once()
	suite.journals.On("PostDraft", mock.Anything, testLedgerID, "je-1", "jan", testUserID).Return(posted, nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/journals/je-1/post", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/journals/je-1/post", dto.PostDraftRequest{PeriodID: "jan"}).Code)
}

func (suite *JournalHandlerTestSuite) TestUpdateDraft_NotDraft() {
	suite.journals.On("UpdateDraft", mock.Anything, testLedgerID, "je-1", mock.AnythingOfType("dto.UpdateDraftRequest"), testUserID).
		Return(nil, apperrors.ErrEntryNotDraft).Once()

	w := suite.do(http.MethodPut, "/journals/je-1", entryBody(""))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JournalHandlerTestSuite) TestReverse() {
	reversal := postedEntry("je-2")
	orig := "je-1"
	reversal.ReversesEntryID = &orig
	suite.journals.On("Reverse", mock.Anything, testLedgerID, "je-1", testUserID).Return(reversal, nil).Once()
	suite.journals.On("Reverse", mock.Anything, testLedgerID, "je-1", testUserID).Return(nil, apperrors.ErrAlreadyReversed).Once()

	w := suite.do(http.MethodPost, "/journals/je-1/reverse", nil)
	suite.Equal(http.StatusCreated, w.Code)
	var body dto.JournalEntryResponse
	suite.decode(w, &body)
	suite.Require().NotNil(body.ReversesEntryID)
	suite.Equal("je-1", *body.ReversesEntryID)

	w = suite.do(http.MethodPost, "/journals/je-1/reverse", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
