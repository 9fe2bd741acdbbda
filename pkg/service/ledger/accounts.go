package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/amirasaad/ledger/pkg/repository"
)

// CreateAccount opens an account. A non-positive balance is rejected before
// any other field is looked at.
func (s *Service) CreateAccount(ctx context.Context, cmd CreateAccountCommand) (*account.Account, error) {
	logger := s.logger.With("op", "CreateAccount", "account_number", cmd.Number)

	acct, err := account.New().
		WithNumber(cmd.Number).
		WithBalance(cmd.Balance).
		WithCustomerName(cmd.CustomerName).
		WithType(cmd.Type).
		WithTime(s.now()).
		Build()
	if err != nil {
		logger.Warn("CreateAccount rejected", "error", err)
		return nil, err
	}

	err = s.locker.WithLock(ctx, lock.AccountKey(acct.Number), func(ctx context.Context) error {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			return repo.Create(ctx, acct)
		})
		if err != nil {
			return err
		}
		s.publish(ctx, events.NewAccountEvent(events.AccountCreated, acct))
		return nil
	})
	if err != nil {
		logger.Error("CreateAccount failed", "error", err)
		return nil, err
	}

	logger.Info("CreateAccount successful", "id", acct.ID, "balance", acct.Balance)
	return acct, nil
}

// UpdateAccount replaces an account's fields. ref is an account number, or
// the numeric store id when no account has that number.
func (s *Service) UpdateAccount(ctx context.Context, ref string, r account.Replacement) (*account.Account, error) {
	logger := s.logger.With("op", "UpdateAccount", "ref", ref)

	current, err := s.resolveAccount(ctx, ref)
	if err != nil {
		logger.Warn("UpdateAccount failed: account lookup", "error", err)
		return nil, err
	}

	var updated *account.Account
	err = s.locker.WithLock(ctx, lock.AccountKey(current.Number), func(ctx context.Context) error {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			acct, err := repo.GetForUpdate(ctx, current.Number)
			if err != nil {
				return err
			}
			if err := acct.Replace(r, s.now()); err != nil {
				return err
			}
			if err := repo.Update(ctx, acct); err != nil {
				return err
			}
			updated = acct
			return nil
		})
		if err != nil {
			return err
		}
		s.publish(ctx, events.NewAccountEvent(events.AccountUpdated, updated))
		return nil
	})
	if err != nil {
		logger.Error("UpdateAccount failed", "error", err)
		return nil, err
	}

	logger.Info("UpdateAccount successful", "account_number", updated.Number, "version", updated.Version)
	return updated, nil
}

// DeleteAccount removes an account and, in the same unit of work, every
// transaction recorded against it.
func (s *Service) DeleteAccount(ctx context.Context, number string) error {
	logger := s.logger.With("op", "DeleteAccount", "account_number", number)

	var deleted *account.Account
	var removed int64
	err := s.locker.WithLock(ctx, lock.AccountKey(number), func(ctx context.Context) error {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			txs, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			acct, err := accounts.GetForUpdate(ctx, number)
			if err != nil {
				return err
			}
			if removed, err = txs.DeleteByAccount(ctx, number); err != nil {
				return err
			}
			if err := accounts.Delete(ctx, number); err != nil {
				return err
			}
			deleted = acct
			return nil
		})
		if err != nil {
			return err
		}
		s.publish(ctx, events.NewAccountEvent(events.AccountDeleted, deleted))
		return nil
	})
	if err != nil {
		logger.Error("DeleteAccount failed", "error", err)
		return err
	}

	logger.Info("DeleteAccount successful", "transactions_removed", removed)
	return nil
}

// GetAccount returns the committed state of an account. It takes no lock.
func (s *Service) GetAccount(ctx context.Context, number string) (acct *account.Account, err error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err = repo.Get(ctx, number)
	if err != nil {
		s.logger.Debug("GetAccount failed", "account_number", number, "error", err)
		return nil, err
	}
	return acct, nil
}

func (s *Service) resolveAccount(ctx context.Context, ref string) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := repo.Get(ctx, strings.TrimSpace(ref))
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return acct, err
	}
	id, parseErr := strconv.ParseUint(strings.TrimSpace(ref), 10, 64)
	if parseErr != nil {
		return nil, err
	}
	return repo.GetByID(ctx, uint(id))
}
