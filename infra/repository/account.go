package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to db, which may
// be a transaction session.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create implements repository.AccountRepository.
func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	row := mapAccountToModel(a)
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.ErrDuplicateAccount
	}
	if err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

// Get implements repository.AccountRepository.
func (r *accountRepository) Get(ctx context.Context, number string) (*account.Account, error) {
	var row Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Where("account_number = ?", number).First(&row).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToAccount(&row), nil
}

// GetByID implements repository.AccountRepository.
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	var row Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToAccount(&row), nil
}

// GetForUpdate implements repository.AccountRepository. On PostgreSQL the row
// is read with SELECT ... FOR UPDATE; SQLite serializes writers on its own.
func (r *accountRepository) GetForUpdate(ctx context.Context, number string) (*account.Account, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row Account
	if err := WrapError(func() error {
		return q.Where("account_number = ?", number).First(&row).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToAccount(&row), nil
}

// Update implements repository.AccountRepository.
func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	var affected int64
	err := WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Account{}).
			Where("account_number = ? AND version = ?", a.Number, a.Version).
			Updates(map[string]any{
				"balance":       a.Balance,
				"customer_name": a.CustomerName,
				"account_type":  string(a.Type),
				"version":       a.Version + 1,
				"updated_at":    a.UpdatedAt,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConflict
	}
	a.Version++
	return nil
}

// Delete implements repository.AccountRepository.
func (r *accountRepository) Delete(ctx context.Context, number string) error {
	var affected int64
	err := WrapError(func() error {
		res := r.db.WithContext(ctx).Where("account_number = ?", number).Delete(&Account{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapAccountToModel(a *account.Account) Account {
	return Account{
		ID:            a.ID,
		AccountNumber: a.Number,
		Balance:       a.Balance,
		CustomerName:  a.CustomerName,
		AccountType:   string(a.Type),
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func mapModelToAccount(row *Account) *account.Account {
	return account.NewAccountFromData(
		row.ID,
		row.AccountNumber,
		row.Balance,
		row.CustomerName,
		account.Type(row.AccountType),
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
