package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisOptions tunes the redsync mutex used per key.
type RedisOptions struct {
	Timeout    time.Duration
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
	KeyPrefix  string
}

// RedisLocker serializes work across processes with a Redis RedLock.
type RedisLocker struct {
	rs     *redsync.Redsync
	opts   RedisOptions
	logger *slog.Logger
}

// NewRedisLocker creates a RedisLocker on top of client.
func NewRedisLocker(client redis.UniversalClient, opts RedisOptions, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Tries <= 0 {
		opts.Tries = 32
	}
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		opts:   opts,
		logger: logger.With("locker", "redis"),
	}
}

// WithLock implements lock.Locker.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lockKey := l.opts.KeyPrefix + key
	mutex := l.rs.NewMutex(
		lockKey,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)

	waitCtx, cancel := waitContext(ctx, l.opts.Timeout)
	defer cancel()
	if err := mutex.LockContext(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isContention(err) || waitCtx.Err() != nil {
			l.logger.Warn("lock wait timed out", "key", lockKey, "error", err)
			return domain.ErrLockTimeout
		}
		return domain.StorageError(fmt.Sprintf("acquire lock %s", lockKey), err)
	}

	defer func() {
		// Release on a fresh context so a cancelled request still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if ok, err := mutex.UnlockContext(releaseCtx); !ok || err != nil {
			l.logger.Error("Failed to release lock", "key", lockKey, "ok", ok, "error", err)
		}
	}()

	return fn(ctx)
}

// isContention reports whether redsync gave up because another holder owns the key.
func isContention(err error) bool {
	return errors.Is(err, redsync.ErrFailed) ||
		strings.Contains(err.Error(), "lock already taken") ||
		strings.Contains(err.Error(), "failed to acquire lock")
}

var _ lock.Locker = (*RedisLocker)(nil)
