package ledger

import (
	"context"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// CreateTransaction validates a new entry against the account's current
// balance, then persists the entry and applies its effect in one unit of work.
//
// Checks run in this order: amount, transaction id uniqueness, remaining
// fields, account existence, funds.
func (s *Service) CreateTransaction(ctx context.Context, cmd CreateTransactionCommand) (*account.Transaction, error) {
	cmd.AccountNumber = strings.TrimSpace(cmd.AccountNumber)
	logger := s.logger.With("op", "CreateTransaction", "transaction_id", cmd.TransactionID, "account_number", cmd.AccountNumber)
	d := cmd.draft()

	if err := account.ValidateAmount(d.Amount); err != nil {
		logger.Warn("CreateTransaction rejected", "error", err)
		return nil, err
	}
	if strings.TrimSpace(cmd.TransactionID) == "" {
		return nil, domain.NewFieldError(domain.ErrInvalidField, "transaction_id", "is required")
	}
	if cmd.AccountNumber == "" {
		return nil, domain.NewFieldError(domain.ErrInvalidField, "account_number", "is required")
	}

	var (
		tx      *account.Transaction
		delta   decimal.Decimal
		balance decimal.Decimal
	)
	err := s.locker.WithLock(ctx, lock.AccountKey(cmd.AccountNumber), func(ctx context.Context) error {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			txs, err := uow.TransactionRepository()
			if err != nil {
				return err
			}

			exists, err := txs.Exists(ctx, cmd.TransactionID)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateTransaction
			}
			if err := account.ValidateDraftFields(d); err != nil {
				return err
			}
			acct, err := accounts.GetForUpdate(ctx, cmd.AccountNumber)
			if err != nil {
				return accountNotFound(err)
			}
			if delta, err = account.PlanCreate(acct, d); err != nil {
				return err
			}

			now := s.now()
			tx = account.NewTransactionFromData(0, cmd.TransactionID, acct.Number, d.Amount, d.Type, d.Description, d.Status, now)
			if err := txs.Create(ctx, tx); err != nil {
				return err
			}
			if err := acct.ApplyDelta(delta, now); err != nil {
				return err
			}
			if err := accounts.Update(ctx, acct); err != nil {
				return err
			}
			balance = acct.Balance
			return nil
		})
		if err != nil {
			return err
		}
		s.publish(ctx, events.NewTransactionEvent(events.TransactionCreated, tx, delta, balance))
		return nil
	})
	if err != nil {
		logger.Warn("CreateTransaction failed", "error", err)
		return nil, err
	}

	logger.Info("CreateTransaction successful", "type", tx.Type, "amount", tx.Amount, "balance", balance)
	return tx, nil
}

// UpdateTransaction replaces an entry's amount, type, description and status
// and applies the net difference between its new and old effect.
func (s *Service) UpdateTransaction(ctx context.Context, id string, cmd UpdateTransactionCommand) (*account.Transaction, error) {
	logger := s.logger.With("op", "UpdateTransaction", "transaction_id", id)
	d := cmd.draft()

	existing, err := s.GetTransaction(ctx, id)
	if err != nil {
		logger.Warn("UpdateTransaction failed: lookup", "error", err)
		return nil, err
	}
	if cmd.AccountNumber != "" && strings.TrimSpace(cmd.AccountNumber) != existing.AccountNumber {
		return nil, domain.NewFieldError(domain.ErrInvalidField, "account_number", "cannot be changed")
	}

	var (
		tx      *account.Transaction
		net     decimal.Decimal
		balance decimal.Decimal
	)
	err = s.locker.WithLock(ctx, lock.AccountKey(existing.AccountNumber), func(ctx context.Context) error {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			txs, err := uow.TransactionRepository()
			if err != nil {
				return err
			}

			// Re-read under the lock; the entry may have been deleted meanwhile.
			old, err := txs.Get(ctx, id)
			if err != nil {
				return err
			}
			acct, err := accounts.GetForUpdate(ctx, old.AccountNumber)
			if err != nil {
				return accountNotFound(err)
			}
			if net, err = account.PlanUpdate(acct, old, d); err != nil {
				return err
			}

			old.Apply(d)
			if err := txs.Update(ctx, old); err != nil {
				return err
			}
			if err := acct.ApplyDelta(net, s.now()); err != nil {
				return err
			}
			if err := accounts.Update(ctx, acct); err != nil {
				return err
			}
			tx = old
			balance = acct.Balance
			return nil
		})
		if err != nil {
			return err
		}
		s.publish(ctx, events.NewTransactionEvent(events.TransactionUpdated, tx, net, balance))
		return nil
	})
	if err != nil {
		logger.Warn("UpdateTransaction failed", "error", err)
		return nil, err
	}

	logger.Info("UpdateTransaction successful", "net", net, "balance", balance)
	return tx, nil
}

// DeleteTransaction removes an entry. The balance keeps the entry's effect.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	logger := s.logger.With("op", "DeleteTransaction", "transaction_id", id)

	existing, err := s.GetTransaction(ctx, id)
	if err != nil {
		logger.Warn("DeleteTransaction failed: lookup", "error", err)
		return err
	}

	var balance decimal.Decimal
	err = s.locker.WithLock(ctx, lock.AccountKey(existing.AccountNumber), func(ctx context.Context) error {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			txs, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			if err := txs.Delete(ctx, id); err != nil {
				return err
			}
			acct, err := accounts.Get(ctx, existing.AccountNumber)
			if err != nil {
				return accountNotFound(err)
			}
			balance = acct.Balance
			return nil
		})
		if err != nil {
			return err
		}
		s.publish(ctx, events.NewTransactionEvent(events.TransactionDeleted, existing, decimal.Zero, balance))
		return nil
	})
	if err != nil {
		logger.Warn("DeleteTransaction failed", "error", err)
		return err
	}

	logger.Info("DeleteTransaction successful", "balance", balance)
	return nil
}

// GetTransaction returns a committed transaction. It takes no lock.
func (s *Service) GetTransaction(ctx context.Context, id string) (*account.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// ListTransactionsForAccount returns an account's transactions in creation order.
func (s *Service) ListTransactionsForAccount(ctx context.Context, accountNumber string) ([]*account.Transaction, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	if _, err := accounts.Get(ctx, accountNumber); err != nil {
		return nil, accountNotFound(err)
	}
	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txs.ListByAccount(ctx, accountNumber)
}
