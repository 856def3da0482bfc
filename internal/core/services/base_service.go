package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/clock"
	"github.com/SscSPs/ledger_core/internal/core/ports"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/lock"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock  clock.Clock
	Locker ports.LedgerLocker
}

// ServiceOption is a functional option for configuring a service
type ServiceOption func(*BaseService)

// WithClock overrides the system clock.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *BaseService) {
		s.Clock = c
	}
}

// WithLocker sets the ledger single-writer locker.
func WithLocker(l ports.LedgerLocker) ServiceOption {
	return func(s *BaseService) {
		s.Locker = l
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	b := BaseService{}
	for _, option := range options {
		option(&b)
	}
	if b.Clock == nil {
		b.Clock = clock.SystemClock{}
	}
	if b.Locker == nil {
		b.Locker = lock.NewMemoryLocker()
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogFailure logs err at warn level when the caller can correct it and at error level otherwise.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isCallerError(err) {
		args := make([]any, 0, len(keyvals)+1)
		args = append(args, slog.String("error", err.Error()))
		args = append(args, keyvals...)
		s.GetLogger(ctx).Warn(msg, args...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// Now returns the current time from the service clock.
func (s *BaseService) Now() time.Time {
	return s.Clock.Now()
}

// WithLedgerLock runs fn inside the ledger's single-writer section.
func (s *BaseService) WithLedgerLock(ctx context.Context, ledgerID string, fn func() error) error {
	release, err := s.Locker.Acquire(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to acquire ledger lock", slog.String("ledger_id", ledgerID))
		return fmt.Errorf("failed to acquire ledger lock: %w", err)
	}
	defer release()
	return fn()
}

func isCallerError(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrDuplicate)
}
