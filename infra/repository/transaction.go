package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository bound to db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create implements repository.TransactionRepository.
func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	row := mapTransactionToModel(tx)
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.ErrDuplicateTransaction
	}
	if err != nil {
		return err
	}
	tx.ID = row.ID
	return nil
}

// Get implements repository.TransactionRepository.
func (r *transactionRepository) Get(ctx context.Context, transactionID string) (*account.Transaction, error) {
	var row Transaction
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&row).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToTransaction(&row), nil
}

// Exists implements repository.TransactionRepository.
func (r *transactionRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Transaction{}).Where("transaction_id = ?", transactionID).Count(&count).Error
	})
	return count > 0, err
}

// Update implements repository.TransactionRepository. Only the mutable fields
// are written; the account reference and timestamp never change.
func (r *transactionRepository) Update(ctx context.Context, tx *account.Transaction) error {
	var affected int64
	err := WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Transaction{}).
			Where("transaction_id = ?", tx.TransactionID).
			Updates(map[string]any{
				"amount":           tx.Amount,
				"transaction_type": string(tx.Type),
				"description":      tx.Description,
				"status":           tx.Status,
			})
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

// Delete implements repository.TransactionRepository.
func (r *transactionRepository) Delete(ctx context.Context, transactionID string) error {
	var affected int64
	err := WrapError(func() error {
		res := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Delete(&Transaction{})
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

// DeleteByAccount implements repository.TransactionRepository.
func (r *transactionRepository) DeleteByAccount(ctx context.Context, accountNumber string) (int64, error) {
	var affected int64
	err := WrapError(func() error {
		res := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).Delete(&Transaction{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// ListByAccount implements repository.TransactionRepository.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]*account.Transaction, error) {
	var rows []Transaction
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("account_number = ?", accountNumber).
			Order("id ASC").
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	result := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToTransaction(&rows[i]))
	}
	return result, nil
}

func mapTransactionToModel(tx *account.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID,
		TransactionID:   tx.TransactionID,
		AccountNumber:   tx.AccountNumber,
		Amount:          tx.Amount,
		TransactionType: string(tx.Type),
		Description:     tx.Description,
		Status:          tx.Status,
		Timestamp:       tx.Timestamp,
	}
}

func mapModelToTransaction(row *Transaction) *account.Transaction {
	return account.NewTransactionFromData(
		row.ID,
		row.TransactionID,
		row.AccountNumber,
		row.Amount,
		account.TransactionType(row.TransactionType),
		row.Description,
		row.Status,
		row.Timestamp,
	)
}
