package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
)

// AccountRepository defines the interface for account data access operations.
// Lookups return domain.ErrNotFound when no row matches.
type AccountRepository interface {
	// Create inserts a and fills in its store-assigned ID.
	Create(ctx context.Context, a *account.Account) error
	// Get loads an account by its account number.
	Get(ctx context.Context, number string) (*account.Account, error)
	// GetByID loads an account by its surrogate ID.
	GetByID(ctx context.Context, id uint) (*account.Account, error)
	// GetForUpdate loads an account and, where the store supports it, locks
	// the row until the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, number string) (*account.Account, error)
	// Update writes a if its stored version still equals a.Version, then
	// increments a.Version. A stale version yields domain.ErrConflict.
	Update(ctx context.Context, a *account.Account) error
	// Delete removes the account row.
	Delete(ctx context.Context, number string) error
}

// TransactionRepository defines the interface for transaction data access operations.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	Get(ctx context.Context, transactionID string) (*account.Transaction, error)
	Exists(ctx context.Context, transactionID string) (bool, error)
	Update(ctx context.Context, tx *account.Transaction) error
	Delete(ctx context.Context, transactionID string) error
	// DeleteByAccount removes every transaction of an account and returns how many were removed.
	DeleteByAccount(ctx context.Context, accountNumber string) (int64, error)
	// ListByAccount returns an account's transactions in creation order.
	ListByAccount(ctx context.Context, accountNumber string) ([]*account.Transaction, error)
}
