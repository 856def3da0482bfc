package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/ports"
)

// MemoryLocker serializes writers per ledger within one process.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker returns an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

var _ ports.LedgerLocker = (*MemoryLocker)(nil)

// Acquire blocks until the ledger's slot is free or ctx is done.
func (l *MemoryLocker) Acquire(ctx context.Context, ledgerID string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[ledgerID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[ledgerID] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(ledgerID, s)
		return nil, fmt.Errorf("acquire ledger lock %s: %w", ledgerID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.drop(ledgerID, s)
		})
	}, nil
}

// drop forgets the slot once no goroutine holds or waits for it.
func (l *MemoryLocker) drop(ledgerID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, ledgerID)
	}
}
