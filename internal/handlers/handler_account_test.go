package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	HandlerTestSuite
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	created := &domain.Account{
		AccountID: "acc-1", LedgerID: testLedgerID, Code: "1000", Name: "Cash",
		AccountType: domain.Asset, CurrencyCode: "USD", IsActive: true, Balance: domain.Zero("USD"),
	}
	suite.accounts.On("CreateAccount", mock.Anything, testLedgerID, req, testUserID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	suite.decode(w, &body)
	suite.Equal("acc-1", body.AccountID)
	suite.Equal("USD", body.Balance.Currency)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_BindingFailure() {
	w := suite.do(http.MethodPost, "/accounts", map[string]string{"code": "1000", "accountType": "EXPENSES"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	suite.accounts.On("CreateAccount", mock.Anything, testLedgerID, req, testUserID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.accounts.On("GetAccountByID", mock.Anything, testLedgerID, "missing").
		Return(nil, apperrors.ErrAccountNotFound).Once()

	w := suite.do(http.MethodGet, "/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	var body map[string]string
	suite.decode(w, &body)
	suite.Equal("account_not_found", body["code"])
	suite.Equal(string(apperrors.KindPost), body["kind"])
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_InUse() {
	code := "1001"
	suite.accounts.On("UpdateAccount", mock.Anything, testLedgerID, "acc-1",
		mock.MatchedBy(func(r dto.UpdateAccountRequest) bool { return r.Code != nil && *r.Code == code }), testUserID).
		Return(nil, apperrors.ErrAccountInUse).Once()

	w := suite.do(http.MethodPatch, "/accounts/acc-1", dto.UpdateAccountRequest{Code: &code})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_AsOf() {
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.journals.On("BalanceAsOf", mock.Anything, testLedgerID, "acc-1", asOf).
		Return(domain.NewMoney(50025, "USD"), nil).Once()

	w := suite.do(http.MethodGet, "/accounts/acc-1/balance?asOf=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountBalanceResponse
	suite.decode(w, &body)
	suite.Equal("2024-01-31", body.AsOf)
	suite.Equal(int64(50025), body.Balance.MinorUnits)
	suite.Equal("500.25", body.Balance.Amount.StringFixed(2))
}

func (suite *AccountHandlerTestSuite) TestRequiresBearerToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/ledgers/"+testLedgerID+"/accounts", nil)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestRejectsForeignIssuer() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/ledgers/"+testLedgerID+"/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTokenWithIssuer(testUserID, "someone-else"))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
