package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	journalService portssvc.JournalCalculatorSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, js portssvc.JournalCalculatorSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		journalService: js,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, journalService portssvc.JournalCalculatorSvc) {
	h := newAccountHandler(accountService, journalService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the ledger's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input format or validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 409 {object} errorResponse "Account code already used"
// @Failure 500 {object} errorResponse "Failed to create account"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves the ledger's chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("ledgerID"), c.Param("accountID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Partially updates an account. Code, type and currency are frozen once posted entries reference it.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 409 {object} errorResponse "Account in use or code taken"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("ledgerID"), c.Param("accountID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get an account balance as of a date
// @Description Sums the signed effect of every posted line up to and including asOf
// @Tags accounts
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} errorResponse "Invalid date"
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "query parameters")
		return
	}
	asOf, err := asOfOrToday(params.AsOf)
	if err != nil {
		respondWithError(c, err, "Invalid date")
		return
	}

	accountID := c.Param("accountID")
	balance, err := h.journalService.BalanceAsOf(c.Request.Context(), c.Param("ledgerID"), accountID, asOf)
	if err != nil {
		respondWithError(c, err, "Failed to calculate balance")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Balance calculated",
		slog.String("account_id", accountID), slog.String("balance", balance.String()))
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		AsOf:      asOf.Format(time.DateOnly),
		Balance:   dto.ToMoneyResponse(balance),
	})
}
