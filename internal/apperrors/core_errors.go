package apperrors

import "errors"

// Kind groups core errors so callers can branch without string matching.
type Kind string

const (
	KindValidation Kind = "validation"
	KindPeriod     Kind = "period"
	KindPost       Kind = "post"
	KindMatch      Kind = "match"
)

// CoreError is a sentinel for a specific ledger rule violation.
// It also matches its category (ErrValidation, ErrConflict, ...) under errors.Is.
type CoreError struct {
	Kind     Kind
	Code     string
	Message  string
	category error
}

func newCoreError(kind Kind, code, message string, category error) *CoreError {
	return &CoreError{Kind: kind, Code: code, Message: message, category: category}
}

func (e *CoreError) Error() string {
	return e.Message
}

// Is reports whether target is this error's category.
func (e *CoreError) Is(target error) bool {
	return e.category != nil && target == e.category
}

// KindOf returns the kind of the first CoreError in err's chain.
func KindOf(err error) (Kind, bool) {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// CodeOf returns the code of the first CoreError in err's chain.
func CodeOf(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// Validation errors. Always caller-correctable.
var (
	ErrUnbalanced   = newCoreError(KindValidation, "unbalanced", "journal entry debits and credits do not balance", ErrValidation)
	ErrEmptyEntry   = newCoreError(KindValidation, "empty_entry", "journal entry needs at least one debit and one credit line with nonzero totals", ErrValidation)
	ErrInvalidLine  = newCoreError(KindValidation, "invalid_line", "journal line is invalid", ErrValidation)
	ErrInvalidEntry = newCoreError(KindValidation, "invalid_entry", "journal entry header is invalid", ErrValidation)
)

// Period errors.
var (
	ErrPeriodOverlap     = newCoreError(KindPeriod, "period_overlap", "accounting period overlaps an existing period", ErrConflict)
	ErrInvalidRange      = newCoreError(KindPeriod, "invalid_range", "accounting period start date must be before its end date", ErrValidation)
	ErrInvalidTransition = newCoreError(KindPeriod, "invalid_transition", "accounting period status transition is not allowed", ErrConflict)
	ErrPeriodNotOpen     = newCoreError(KindPeriod, "period_not_open", "accounting period is not open", ErrConflict)
	ErrNoPeriodDefined   = newCoreError(KindPeriod, "no_period_defined", "no accounting period covers the date", ErrConflict)
	ErrPeriodMismatch    = newCoreError(KindPeriod, "period_mismatch", "date does not fall inside the requested accounting period", ErrValidation)
	ErrPeriodNotFound    = newCoreError(KindPeriod, "period_not_found", "accounting period not found", ErrNotFound)
)

// Post errors.
var (
	ErrEntryNotFound   = newCoreError(KindPost, "entry_not_found", "journal entry not found", ErrNotFound)
	ErrAlreadyReversed = newCoreError(KindPost, "already_reversed", "journal entry has already been reversed", ErrConflict)
	ErrReverseReversal = newCoreError(KindPost, "reverse_reversal", "a reversal entry cannot itself be reversed", ErrConflict)
	ErrEntryNotPosted  = newCoreError(KindPost, "entry_not_posted", "journal entry is not posted", ErrConflict)
	ErrEntryNotDraft   = newCoreError(KindPost, "entry_not_draft", "journal entry is not a draft", ErrConflict)
	ErrAccountNotFound = newCoreError(KindPost, "account_not_found", "account not found", ErrNotFound)
	ErrAccountInUse    = newCoreError(KindPost, "account_in_use", "account is referenced by posted entries", ErrConflict)
)

// Match errors. Safe to retry after refreshing session state.
var (
	ErrAlreadyMatched  = newCoreError(KindMatch, "already_matched", "reconciliation item is already matched", ErrConflict)
	ErrMatchNotFound   = newCoreError(KindMatch, "item_not_found", "reconciliation item not found", ErrNotFound)
	ErrSessionNotFound = newCoreError(KindMatch, "session_not_found", "reconciliation session not found", ErrNotFound)
	ErrInvalidSession  = newCoreError(KindMatch, "invalid_session", "reconciliation items are invalid", ErrValidation)
)
