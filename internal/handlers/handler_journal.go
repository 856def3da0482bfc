package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createEntry)
		journals.GET("", h.listEntries)
		journals.POST("/validate", h.validateEntry)
		journals.GET("/:entryID", h.getEntry)
		journals.PUT("/:entryID", h.updateDraft)
		journals.POST("/:entryID/post", h.postDraft)
		journals.POST("/:entryID/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Posts a balanced entry, or stores a draft when status is DRAFT
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 409 {object} errorResponse "Period not open"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create journal entry")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry created",
		slog.String("entry_id", entry.EntryID), slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// validateEntry godoc
// @Summary Validate a journal entry without posting it
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry"
// @Success 200 {object} dto.ValidateEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals/validate [post]
func (h *journalHandler) validateEntry(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}

	validated, err := h.journalService.ValidateEntry(c.Request.Context(), c.Param("ledgerID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to validate journal entry")
		return
	}
	changes := make(map[string]dto.MoneyResponse)
	for accountID, delta := range validated.BalanceChanges() {
		changes[accountID] = dto.ToMoneyResponse(delta)
	}
	c.JSON(http.StatusOK, dto.ValidateEntryResponse{
		Valid:          true,
		Total:          dto.ToMoneyResponse(validated.Total()),
		BalanceChanges: changes,
	})
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries ordered by entry date and number using token pagination
// @Tags journals
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   status query string false "DRAFT, POSTED or REVERSED"
// @Param   from query string false "First entry date (YYYY-MM-DD)"
// @Param   to query string false "Last entry date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} errorResponse "Invalid query"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err, "query parameters")
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), c.Param("ledgerID"), params)
	if err != nil {
		respondWithError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} errorResponse "Entry not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateDraft godoc
// @Summary Replace a draft entry
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateDraftRequest true "Draft contents"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} errorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals/{entryID} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postDraft godoc
// @Summary Post a draft entry
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   entryID path string true "Entry ID"
// @Param   body body dto.PostDraftRequest false "Expected period"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 409 {object} errorResponse "Entry is not a draft or period not open"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals/{entryID}/post [post]
func (h *journalHandler) postDraft(c *gin.Context) {
	var req dto.PostDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err, "request format")
			return
		}
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostDraft(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"), req.PeriodID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to post draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts a mirror entry dated today and marks the original REVERSED
// @Tags journals
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   entryID path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 404 {object} errorResponse "Entry not found"
// @Failure 409 {object} errorResponse "Already reversed or not reversible"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/journals/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.Reverse(c.Request.Context(), c.Param("ledgerID"), c.Param("entryID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
