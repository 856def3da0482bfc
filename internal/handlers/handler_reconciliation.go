package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/gin-gonic/gin"
)

type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvc
}

// registerReconciliationRoutes registers routes for bank reconciliation sessions.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvc) {
	h := &reconciliationHandler{reconService: reconService}

	sessions := rg.Group("/reconciliations")
	{
		sessions.POST("", h.openSession)
		sessions.GET("/:sessionID", h.getSession)
		sessions.DELETE("/:sessionID", h.closeSession)
		sessions.POST("/:sessionID/match", h.match)
		sessions.POST("/:sessionID/unmatch", h.unmatch)
		sessions.POST("/:sessionID/adjustments", h.addAdjustment)
		sessions.GET("/:sessionID/summary", h.summary)
		sessions.GET("/:sessionID/suggestions", h.suggestions)
	}
}

// openSession godoc
// @Summary Open a reconciliation session
// @Description Book items default to the account's posted lines when accountID is given and bookItems is empty
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   session body dto.OpenSessionRequest true "Session"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} errorResponse "Invalid session"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations [post]
func (h *reconciliationHandler) openSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	snap, err := h.reconService.OpenSession(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to open reconciliation session")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSessionResponse(*snap))
}

// getSession godoc
// @Summary Get a reconciliation session
// @Tags reconciliation
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errorResponse "Session not found or expired"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	snap, err := h.reconService.GetSession(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID"))
	h.respondSnapshot(c, snap, err, "Failed to retrieve reconciliation session")
}

// closeSession godoc
// @Summary Discard a reconciliation session
// @Tags reconciliation
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Success 204
// @Failure 404 {object} errorResponse "Session not found or expired"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID} [delete]
func (h *reconciliationHandler) closeSession(c *gin.Context) {
	if err := h.reconService.CloseSession(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID")); err != nil {
		respondWithError(c, err, "Failed to close reconciliation session")
		return
	}
	c.Status(http.StatusNoContent)
}

// match godoc
// @Summary Pair a book item with a bank item
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Param   match body dto.MatchRequest true "Items to pair"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errorResponse "Item not found"
// @Failure 409 {object} errorResponse "Item already matched"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID}/match [post]
func (h *reconciliationHandler) match(c *gin.Context) {
	var req dto.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	snap, err := h.reconService.Match(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID"), req.BookItemID, req.BankItemID)
	h.respondSnapshot(c, snap, err, "Failed to match items")
}

// unmatch godoc
// @Summary Clear the pairing of an item
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Param   unmatch body dto.UnmatchRequest true "Item to release"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errorResponse "Item not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID}/unmatch [post]
func (h *reconciliationHandler) unmatch(c *gin.Context) {
	var req dto.UnmatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	snap, err := h.reconService.Unmatch(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID"), req.ItemID)
	h.respondSnapshot(c, snap, err, "Failed to unmatch item")
}

// addAdjustment godoc
// @Summary Add a book-side adjustment
// @Description Records a bank fee, interest or similar item missing from the books
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Param   item body dto.ReconciliationItemRequest true "Adjustment"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} errorResponse "Invalid item"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID}/adjustments [post]
func (h *reconciliationHandler) addAdjustment(c *gin.Context) {
	var req dto.ReconciliationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "request format")
		return
	}
	snap, err := h.reconService.AddAdjustment(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID"), req)
	h.respondSnapshot(c, snap, err, "Failed to add adjustment")
}

// summary godoc
// @Summary Summarize a reconciliation session
// @Tags reconciliation
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SummaryResponse
// @Failure 404 {object} errorResponse "Session not found or expired"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID}/summary [get]
func (h *reconciliationHandler) summary(c *gin.Context) {
	s, err := h.reconService.Summarize(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID"))
	if err != nil {
		respondWithError(c, err, "Failed to summarize reconciliation session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(s))
}

// suggestions godoc
// @Summary Suggest matches
// @Description Pairs unmatched items of equal amount, closest dates first
// @Tags reconciliation
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SuggestionsResponse
// @Failure 404 {object} errorResponse "Session not found or expired"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/reconciliations/{sessionID}/suggestions [get]
func (h *reconciliationHandler) suggestions(c *gin.Context) {
	suggestions, err := h.reconService.SuggestMatches(c.Request.Context(), c.Param("ledgerID"), c.Param("sessionID"))
	if err != nil {
		respondWithError(c, err, "Failed to suggest matches")
		return
	}
	if suggestions == nil {
		suggestions = []domain.MatchSuggestion{}
	}
	c.JSON(http.StatusOK, dto.SuggestionsResponse{Suggestions: suggestions})
}

func (h *reconciliationHandler) respondSnapshot(c *gin.Context, snap *domain.SessionSnapshot, err error, failMsg string) {
	if err != nil {
		respondWithError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(*snap))
}
