package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param ledgerID path string true "Ledger ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "query parameters")
		return
	}
	asOf, err := asOfOrToday(params.AsOf)
	if err != nil {
		respondWithError(c, err, "Invalid date")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("ledger_id", c.Param("ledgerID")),
		slog.String("as_of", params.AsOf),
	)

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("ledgerID"), asOf)
	if err != nil {
		respondWithError(c, err, "Failed to generate trial balance")
		return
	}
	logger.Info("Trial balance generated", slog.Int("rows", len(tb.Rows)), slog.Bool("balanced", tb.IsBalanced()))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Income and expense activity of one currency between two dates
// @Tags reports
// @Produce json
// @Param ledgerID path string true "Ledger ID"
// @Param currency query string true "Currency code"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.PAndLResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 500 {object} errorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "query parameters")
		return
	}
	from, err := dto.ParseDate(params.From)
	if err != nil {
		respondWithError(c, err, "Invalid date")
		return
	}
	to, err := dto.ParseDate(params.To)
	if err != nil {
		respondWithError(c, err, "Invalid date")
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("ledgerID"), params.Currency, from, to)
	if err != nil {
		respondWithError(c, err, "Failed to generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ToPAndLResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity of one currency as of a date
// @Tags reports
// @Produce json
// @Param ledgerID path string true "Ledger ID"
// @Param currency query string true "Currency code"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 500 {object} errorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	var params dto.BalanceSheetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "query parameters")
		return
	}
	asOf, err := asOfOrToday(params.AsOf)
	if err != nil {
		respondWithError(c, err, "Invalid date")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("ledgerID"), params.Currency, asOf)
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}
