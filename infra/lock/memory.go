package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/lock"
	"golang.org/x/sync/semaphore"
)

type memoryEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// MemoryLocker is a process-local Locker backed by one weighted semaphore per key.
// Entries are dropped once no caller holds or waits for them.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	timeout time.Duration
	logger  *slog.Logger
}

// NewMemoryLocker creates a MemoryLocker that waits at most timeout per
// acquisition. A non-positive timeout waits until ctx is done.
func NewMemoryLocker(timeout time.Duration, logger *slog.Logger) *MemoryLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryLocker{
		entries: make(map[string]*memoryEntry),
		timeout: timeout,
		logger:  logger.With("locker", "memory"),
	}
}

// WithLock implements lock.Locker.
func (l *MemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	entry := l.acquireEntry(key)
	defer l.releaseEntry(key)

	waitCtx, cancel := waitContext(ctx, l.timeout)
	defer cancel()
	if err := entry.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Warn("lock wait timed out", "key", key, "timeout", l.timeout)
		return domain.ErrLockTimeout
	}
	defer entry.sem.Release(1)

	return fn(ctx)
}

// waitContext bounds lock acquisition by timeout. A non-positive timeout
// leaves the wait bounded by ctx alone.
func waitContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (l *MemoryLocker) acquireEntry(key string) *memoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &memoryEntry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *MemoryLocker) releaseEntry(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

var _ lock.Locker = (*MemoryLocker)(nil)

