package lock

import (
	"context"
)

// Locker serializes work per key. At most one fn runs for a given key at a
// time; work on different keys proceeds in parallel.
type Locker interface {
	// WithLock runs fn while holding key. If the lock cannot be acquired
	// within the configured timeout, domain.ErrLockTimeout is returned and
	// fn is not called. fn's error is returned unchanged.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// AccountKey is the lock key guarding one account and its transactions.
func AccountKey(accountNumber string) string {
	return "account:" + accountNumber
}
