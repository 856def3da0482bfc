package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/handlers"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	testLedgerID = "ledger-1"
	testUserID   = "user-42"
	testIssuer   = "ledger-core-test"
)

// HandlerTestSuite routes requests through the real router and auth middleware onto mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	jwtSecret      string
	accounts       *MockAccountService
	journals       *MockJournalService
	periods        *MockPeriodService
	reconciliation *MockReconciliationService
	reporting      *MockReportingService
}

// generateTestToken creates a signed JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	return suite.generateTokenWithIssuer(userID, testIssuer)
}

func (suite *HandlerTestSuite) generateTokenWithIssuer(userID, issuer string) string {
	signed, err := middleware.IssueToken(userID, suite.jwtSecret, issuer, time.Hour)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.accounts = new(MockAccountService)
	suite.journals = new(MockJournalService)
	suite.periods = new(MockPeriodService)
	suite.reconciliation = new(MockReconciliationService)
	suite.reporting = new(MockReportingService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, JWTIssuer: testIssuer, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:        suite.accounts,
		Period:         suite.periods,
		Journal:        suite.journals,
		Reconciliation: suite.reconciliation,
		Reporting:      suite.reporting,
	})
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.accounts.AssertExpectations(suite.T())
	suite.journals.AssertExpectations(suite.T())
	suite.periods.AssertExpectations(suite.T())
	suite.reconciliation.AssertExpectations(suite.T())
	suite.reporting.AssertExpectations(suite.T())
}

// do sends an authenticated request under the test ledger.
func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, "/api/v1/ledgers/"+testLedgerID+path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
