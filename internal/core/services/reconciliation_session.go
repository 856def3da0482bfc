package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/google/uuid"
)

// sessionInfo is the immutable header of a reconciliation session.
type sessionInfo struct {
	SessionID string
	LedgerID  string
	AccountID string
	Currency  string
	Tolerance int64
	OpenedAt  time.Time
	OpenedBy  string
}

// itemRef locates an item by side and position.
type itemRef struct {
	side  domain.ReconciliationSide
	index int
}

// session holds the book and bank items of one reconciliation. Item IDs are unique across
// both sides. A matched item's MatchID is the ID of its counterpart.
type session struct {
	mu    sync.RWMutex
	info  sessionInfo
	book  []domain.ReconciliationItem
	bank  []domain.ReconciliationItem
	index map[string]itemRef
}

// loadSession builds a session with every item unmatched. Missing item IDs are generated.
func loadSession(info sessionInfo, book, bank []domain.ReconciliationItem) (*session, error) {
	if info.Tolerance < 1 {
		return nil, fmt.Errorf("%w: tolerance must be at least one minor unit", apperrors.ErrInvalidSession)
	}
	s := &session{
		info:  info,
		book:  make([]domain.ReconciliationItem, 0, len(book)),
		bank:  make([]domain.ReconciliationItem, 0, len(bank)),
		index: make(map[string]itemRef, len(book)+len(bank)),
	}
	for _, it := range book {
		if err := s.add(domain.BookSide, it, false); err != nil {
			return nil, err
		}
	}
	for _, it := range bank {
		if err := s.add(domain.BankSide, it, false); err != nil {
			return nil, err
		}
	}
	if _, err := s.summarizeLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// add appends an unmatched item. Callers hold the write lock or own s exclusively.
func (s *session) add(side domain.ReconciliationSide, it domain.ReconciliationItem, adjustment bool) error {
	if it.ItemID == "" {
		it.ItemID = uuid.NewString()
	}
	if _, dup := s.index[it.ItemID]; dup {
		return fmt.Errorf("%w: duplicate item ID %s", apperrors.ErrInvalidSession, it.ItemID)
	}
	if it.Amount.Currency != s.info.Currency {
		return fmt.Errorf("%w: item %s currency %s does not match session currency %s",
			apperrors.ErrInvalidSession, it.ItemID, it.Amount.Currency, s.info.Currency)
	}
	it.Side = side
	it.Date = domain.DateOnly(it.Date)
	it.IsMatched = false
	it.MatchID = nil
	it.IsAdjustment = adjustment

	if side == domain.BookSide {
		s.index[it.ItemID] = itemRef{side: side, index: len(s.book)}
		s.book = append(s.book, it)
	} else {
		s.index[it.ItemID] = itemRef{side: side, index: len(s.bank)}
		s.bank = append(s.bank, it)
	}
	return nil
}

func (s *session) item(ref itemRef) *domain.ReconciliationItem {
	if ref.side == domain.BookSide {
		return &s.book[ref.index]
	}
	return &s.bank[ref.index]
}

// lookup finds id on side. An ID present only on the other side is reported as not found.
func (s *session) lookup(id string, side domain.ReconciliationSide) (*domain.ReconciliationItem, error) {
	ref, ok := s.index[id]
	if !ok || ref.side != side {
		return nil, fmt.Errorf("%w: no %s item %s", apperrors.ErrMatchNotFound, side, id)
	}
	return s.item(ref), nil
}

// Match pairs a book item with a bank item. Amounts need not be equal.
func (s *session) Match(bookID, bankID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.lookup(bookID, domain.BookSide)
	if err != nil {
		return err
	}
	bank, err := s.lookup(bankID, domain.BankSide)
	if err != nil {
		return err
	}
	if book.IsMatched {
		return fmt.Errorf("%w: book item %s", apperrors.ErrAlreadyMatched, bookID)
	}
	if bank.IsMatched {
		return fmt.Errorf("%w: bank item %s", apperrors.ErrAlreadyMatched, bankID)
	}

	bookRef, bankRef := book.ItemID, bank.ItemID
	book.IsMatched, book.MatchID = true, &bankRef
	bank.IsMatched, bank.MatchID = true, &bookRef
	return nil
}

// Unmatch clears the pairing held by itemID and its counterpart. Unmatched items are a no-op.
func (s *session) Unmatch(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.index[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrMatchNotFound, itemID)
	}
	it := s.item(ref)
	if !it.IsMatched {
		return nil
	}
	if it.MatchID != nil {
		if otherRef, ok := s.index[*it.MatchID]; ok {
			other := s.item(otherRef)
			other.IsMatched, other.MatchID = false, nil
		}
	}
	it.IsMatched, it.MatchID = false, nil
	return nil
}

// AddAdjustment records a new unmatched book item, typically a bank fee or interest line
// not yet in the books.
func (s *session) AddAdjustment(it domain.ReconciliationItem) (domain.ReconciliationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.add(domain.BookSide, it, true); err != nil {
		return domain.ReconciliationItem{}, err
	}
	added := s.book[len(s.book)-1]
	if _, err := s.summarizeLocked(); err != nil {
		s.book = s.book[:len(s.book)-1]
		delete(s.index, added.ItemID)
		return domain.ReconciliationItem{}, err
	}
	return added, nil
}

// Summarize computes balances and unmatched totals. The session is reconciled when the
// unmatched totals differ by less than the tolerance.
func (s *session) Summarize() (domain.ReconciliationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summarizeLocked()
}

// summarizeLocked reports totals that do not fit in int64 minor units as ErrInvalidSession.
func (s *session) summarizeLocked() (domain.ReconciliationSummary, error) {
	sum, err := s.totalsLocked()
	if err != nil {
		return domain.ReconciliationSummary{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidSession, err)
	}
	return sum, nil
}

func (s *session) totalsLocked() (domain.ReconciliationSummary, error) {
	cur := s.info.Currency
	sum := domain.ReconciliationSummary{
		BookBalance:        domain.Zero(cur),
		BankBalance:        domain.Zero(cur),
		UnmatchedBookTotal: domain.Zero(cur),
		UnmatchedBankTotal: domain.Zero(cur),
	}
	var err error
	for _, it := range s.book {
		if sum.BookBalance, err = sum.BookBalance.Add(it.Amount); err != nil {
			return domain.ReconciliationSummary{}, err
		}
		if !it.IsMatched {
			sum.UnmatchedBookCount++
			if sum.UnmatchedBookTotal, err = sum.UnmatchedBookTotal.Add(it.Amount); err != nil {
				return domain.ReconciliationSummary{}, err
			}
		}
	}
	for _, it := range s.bank {
		if sum.BankBalance, err = sum.BankBalance.Add(it.Amount); err != nil {
			return domain.ReconciliationSummary{}, err
		}
		if !it.IsMatched {
			sum.UnmatchedBankCount++
			if sum.UnmatchedBankTotal, err = sum.UnmatchedBankTotal.Add(it.Amount); err != nil {
				return domain.ReconciliationSummary{}, err
			}
		}
	}
	if sum.Difference, err = sum.BookBalance.Sub(sum.BankBalance); err != nil {
		return domain.ReconciliationSummary{}, err
	}
	gap, err := sum.UnmatchedBookTotal.Sub(sum.UnmatchedBankTotal)
	if err != nil {
		return domain.ReconciliationSummary{}, err
	}
	absGap, err := gap.Abs()
	if err != nil {
		return domain.ReconciliationSummary{}, err
	}
	sum.IsReconciled = absGap.Amount < s.info.Tolerance
	return sum, nil
}

// SuggestMatches proposes, for each unmatched book item, the closest-dated unmatched bank item
// of equal amount. Each bank item is suggested at most once.
func (s *session) SuggestMatches() []domain.MatchSuggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	taken := make(map[string]bool)
	out := []domain.MatchSuggestion{}
	for _, b := range s.book {
		if b.IsMatched {
			continue
		}
		best, bestDays := "", -1
		for _, k := range s.bank {
			if k.IsMatched || taken[k.ItemID] || k.Amount.Amount != b.Amount.Amount {
				continue
			}
			days := daysApart(b.Date, k.Date)
			if bestDays < 0 || days < bestDays {
				best, bestDays = k.ItemID, days
			}
		}
		if best != "" {
			taken[best] = true
			out = append(out, domain.MatchSuggestion{BookItemID: b.ItemID, BankItemID: best, DaysApart: bestDays})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysApart < out[j].DaysApart })
	return out
}

// Snapshot returns a deep copy of the session together with its summary.
func (s *session) Snapshot() (domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, err := s.summarizeLocked()
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return domain.SessionSnapshot{
		SessionID: s.info.SessionID,
		LedgerID:  s.info.LedgerID,
		AccountID: s.info.AccountID,
		Currency:  s.info.Currency,
		Tolerance: s.info.Tolerance,
		OpenedAt:  s.info.OpenedAt,
		OpenedBy:  s.info.OpenedBy,
		BookItems: copyItems(s.book),
		BankItems: copyItems(s.bank),
		Summary:   summary,
	}, nil
}

func copyItems(items []domain.ReconciliationItem) []domain.ReconciliationItem {
	out := make([]domain.ReconciliationItem, len(items))
	for i, it := range items {
		if it.MatchID != nil {
			id := *it.MatchID
			it.MatchID = &id
		}
		out[i] = it
	}
	return out
}

func daysApart(a, b time.Time) int {
	d := int(domain.DateOnly(a).Sub(domain.DateOnly(b)).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
