package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ReconciliationSettings bounds the in-memory session store.
type ReconciliationSettings struct {
	DefaultTolerance int64
	MaxSessions      int
	SessionTTL       time.Duration
}

// reconciliationService keeps open sessions in an expiring LRU. Sessions are not persisted.
type reconciliationService struct {
	BaseService
	accountRepo      portsrepo.AccountReader
	journalRepo      portsrepo.JournalReader
	sessions         *expirable.LRU[string, *session]
	defaultTolerance int64
}

// NewReconciliationService creates a new reconciliation service with the provided options
func NewReconciliationService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalReader, settings ReconciliationSettings, options ...ServiceOption) portssvc.ReconciliationSvc {
	if settings.DefaultTolerance < 1 {
		settings.DefaultTolerance = 1
	}
	if settings.MaxSessions < 1 {
		settings.MaxSessions = 1024
	}
	if settings.SessionTTL <= 0 {
		settings.SessionTTL = 2 * time.Hour
	}
	return &reconciliationService{
		BaseService:      newBaseService(options...),
		accountRepo:      accountRepo,
		journalRepo:      journalRepo,
		sessions:         expirable.NewLRU[string, *session](settings.MaxSessions, nil, settings.SessionTTL),
		defaultTolerance: settings.DefaultTolerance,
	}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// OpenSession starts a session from supplied items. When no book items are supplied and an
// account is named, book items are derived from that account's posted lines.
func (s *reconciliationService) OpenSession(ctx context.Context, ledgerID string, req dto.OpenSessionRequest, userID string) (*domain.SessionSnapshot, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	book, bank, err := req.Items()
	if err != nil {
		return nil, err
	}

	info := sessionInfo{
		SessionID: uuid.NewString(),
		LedgerID:  ledgerID,
		AccountID: req.AccountID,
		Currency:  strings.ToUpper(req.CurrencyCode),
		Tolerance: s.defaultTolerance,
		OpenedAt:  s.Now(),
		OpenedBy:  userID,
	}
	if req.ToleranceMinor != nil {
		info.Tolerance = *req.ToleranceMinor
	}

	if len(book) == 0 && req.AccountID != "" {
		rng, err := req.DateRange()
		if err != nil {
			return nil, err
		}
		if book, err = s.bookItemsFromLedger(ctx, ledgerID, req.AccountID, info.Currency, rng); err != nil {
			s.LogFailure(ctx, err, "Failed to derive book items", slog.String("account_id", req.AccountID))
			return nil, err
		}
	}

	sess, err := loadSession(info, book, bank)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to open reconciliation session", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	s.sessions.Add(info.SessionID, sess)

	s.LogInfo(ctx, "Reconciliation session opened",
		slog.String("session_id", info.SessionID),
		slog.Int("book_items", len(book)),
		slog.Int("bank_items", len(bank)))
	return s.snapshot(sess)
}

// bookItemsFromLedger turns each line on accountID into a book item signed debit minus credit.
func (s *reconciliationService) bookItemsFromLedger(ctx context.Context, ledgerID, accountID, currency string, rng domain.DateRange) ([]domain.ReconciliationItem, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, ledgerID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, err
	}
	if account.CurrencyCode != currency {
		return nil, fmt.Errorf("%w: account %s is in %s, session is in %s",
			apperrors.ErrInvalidSession, account.Code, account.CurrencyCode, currency)
	}

	entries, err := s.journalRepo.LoadEntriesForAccount(ctx, ledgerID, accountID, rng)
	if err != nil {
		return nil, err
	}
	var items []domain.ReconciliationItem
	for _, e := range entries {
		for _, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			amount, err := l.Debit.Sub(l.Credit)
			if err != nil {
				return nil, err
			}
			description := l.Description
			if description == "" {
				description = e.Description
			}
			items = append(items, domain.ReconciliationItem{
				ItemID:      l.LineID,
				Side:        domain.BookSide,
				Date:        e.EntryDate,
				Description: description,
				Reference:   e.EntryNumber,
				Amount:      amount,
			})
		}
	}
	return items, nil
}

func (s *reconciliationService) GetSession(ctx context.Context, ledgerID, sessionID string) (*domain.SessionSnapshot, error) {
	sess, err := s.get(ledgerID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess)
}

func (s *reconciliationService) CloseSession(ctx context.Context, ledgerID, sessionID string) error {
	if _, err := s.get(ledgerID, sessionID); err != nil {
		return err
	}
	s.sessions.Remove(sessionID)
	s.LogInfo(ctx, "Reconciliation session closed", slog.String("session_id", sessionID))
	return nil
}

func (s *reconciliationService) Match(ctx context.Context, ledgerID, sessionID, bookItemID, bankItemID string) (*domain.SessionSnapshot, error) {
	sess, err := s.get(ledgerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Match(bookItemID, bankItemID); err != nil {
		s.LogFailure(ctx, err, "Failed to match items", slog.String("session_id", sessionID),
			slog.String("book_item_id", bookItemID), slog.String("bank_item_id", bankItemID))
		return nil, err
	}
	return s.snapshot(sess)
}

func (s *reconciliationService) Unmatch(ctx context.Context, ledgerID, sessionID, itemID string) (*domain.SessionSnapshot, error) {
	sess, err := s.get(ledgerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Unmatch(itemID); err != nil {
		s.LogFailure(ctx, err, "Failed to unmatch item", slog.String("session_id", sessionID), slog.String("item_id", itemID))
		return nil, err
	}
	return s.snapshot(sess)
}

func (s *reconciliationService) AddAdjustment(ctx context.Context, ledgerID, sessionID string, req dto.ReconciliationItemRequest) (*domain.SessionSnapshot, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	sess, err := s.get(ledgerID, sessionID)
	if err != nil {
		return nil, err
	}
	item, err := req.ToDomain(domain.BookSide, sess.info.Currency)
	if err != nil {
		return nil, err
	}
	if _, err := sess.AddAdjustment(item); err != nil {
		s.LogFailure(ctx, err, "Failed to add adjustment", slog.String("session_id", sessionID))
		return nil, err
	}
	return s.snapshot(sess)
}

func (s *reconciliationService) Summarize(ctx context.Context, ledgerID, sessionID string) (domain.ReconciliationSummary, error) {
	sess, err := s.get(ledgerID, sessionID)
	if err != nil {
		return domain.ReconciliationSummary{}, err
	}
	return sess.Summarize()
}

func (s *reconciliationService) SuggestMatches(ctx context.Context, ledgerID, sessionID string) ([]domain.MatchSuggestion, error) {
	sess, err := s.get(ledgerID, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.SuggestMatches(), nil
}

// get returns the live session. Sessions of other ledgers are reported as not found.
func (s *reconciliationService) get(ledgerID, sessionID string) (*session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok || sess.info.LedgerID != ledgerID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

func (s *reconciliationService) snapshot(sess *session) (*domain.SessionSnapshot, error) {
	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
