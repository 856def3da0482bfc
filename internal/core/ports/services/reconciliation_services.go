package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// ReconciliationSvc manages in-memory reconciliation sessions of a ledger.
type ReconciliationSvc interface {
	OpenSession(ctx context.Context, ledgerID string, req dto.OpenSessionRequest, userID string) (*domain.SessionSnapshot, error)
	GetSession(ctx context.Context, ledgerID, sessionID string) (*domain.SessionSnapshot, error)
	CloseSession(ctx context.Context, ledgerID, sessionID string) error

	Match(ctx context.Context, ledgerID, sessionID, bookItemID, bankItemID string) (*domain.SessionSnapshot, error)
	Unmatch(ctx context.Context, ledgerID, sessionID, itemID string) (*domain.SessionSnapshot, error)
	AddAdjustment(ctx context.Context, ledgerID, sessionID string, req dto.ReconciliationItemRequest) (*domain.SessionSnapshot, error)
	Summarize(ctx context.Context, ledgerID, sessionID string) (domain.ReconciliationSummary, error)
	SuggestMatches(ctx context.Context, ledgerID, sessionID string) ([]domain.MatchSuggestion, error)
}
