package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// registerPeriodRoutes registers routes related to accounting periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/postable", h.checkPostable)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Opens a new period. Periods of a ledger may not overlap.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} errorResponse "Invalid range"
// @Failure 409 {object} errorResponse "Overlaps an existing period"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Success 200 {object} dto.ListPeriodsResponse
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondWithError(c, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// getPeriod godoc
// @Summary Get an accounting period
// @Tags periods
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} errorResponse "Period not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// checkPostable godoc
// @Summary Check whether a date is postable
// @Description Returns the open period covering date, or the reason posting would be refused
// @Tags periods
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   date query string true "Entry date (YYYY-MM-DD)"
// @Param   periodID query string false "Expected period"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} errorResponse "Period mismatch"
// @Failure 409 {object} errorResponse "No open period"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods/postable [get]
func (h *periodHandler) checkPostable(c *gin.Context) {
	var params dto.PostableParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "query parameters")
		return
	}
	date, err := dto.ParseDate(params.Date)
	if err != nil {
		respondWithError(c, err, "Invalid date")
		return
	}

	period, err := h.periodService.AssertPostable(c.Request.Context(), c.Param("ledgerID"), params.PeriodID, date)
	if err != nil {
		respondWithError(c, err, "Failed to check period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close an open period
// @Description Snapshots posted totals and stops posting into the period
// @Tags periods
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} errorResponse "Invalid transition"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	h.transition(c, h.periodService.ClosePeriod, "Failed to close period")
}

// lockPeriod godoc
// @Summary Lock a closed period
// @Description Locking is permanent
// @Tags periods
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} errorResponse "Invalid transition"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods/{periodID}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.transition(c, h.periodService.LockPeriod, "Failed to lock period")
}

// reopenPeriod godoc
// @Summary Reopen a closed period
// @Tags periods
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} errorResponse "Invalid transition"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	h.transition(c, h.periodService.ReopenPeriod, "Failed to reopen period")
}

type periodTransition func(ctx context.Context, ledgerID, periodID, userID string) (*domain.AccountingPeriod, error)

func (h *periodHandler) transition(c *gin.Context, fn periodTransition, failMsg string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	period, err := fn(c.Request.Context(), c.Param("ledgerID"), c.Param("periodID"), userID)
	if err != nil {
		respondWithError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
