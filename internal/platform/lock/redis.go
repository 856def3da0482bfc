package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/ports"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ledger_core:lock:ledger:"

// RedisLocker serializes writers per ledger across replicas with the RedLock algorithm.
type RedisLocker struct {
	rs         *redsync.Redsync
	expiry     time.Duration
	tries      int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewRedisLocker builds a locker on client. expiry bounds how long a crashed holder
// can block a ledger; it must exceed the longest write section.
func NewRedisLocker(client *redis.Client, expiry time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		rs:         redsync.New(goredis.NewPool(client)),
		expiry:     expiry,
		tries:      64,
		retryDelay: 50 * time.Millisecond,
		logger:     logger,
	}
}

var _ ports.LedgerLocker = (*RedisLocker)(nil)

// Acquire retries until the ledger key is held, the retry budget is spent or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, ledgerID string) (func(), error) {
	key := keyPrefix + ledgerID
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(l.tries),
		redsync.WithRetryDelay(l.retryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("acquire ledger lock %s: %w", ledgerID, err)
	}

	return func() {
		// The caller's context may already be cancelled; release independently of it.
		uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if ok, err := mutex.UnlockContext(uctx); !ok || err != nil {
			l.logger.Error("Failed to release ledger lock", slog.String("key", key), slog.Bool("ok", ok), slog.Any("error", err))
		}
	}, nil
}
