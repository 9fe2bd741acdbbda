// Package ledger coordinates account and transaction writes so that every
// ledger entry and its balance effect commit together.
//
// Each write command takes the account's lock, opens one unit of work, reads
// the account inside it, validates with the pure rules in
// pkg/domain/account, writes the transaction row and the new balance, and
// commits. Events are published after commit, before the lock is released,
// and never fail a command.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/amirasaad/ledger/pkg/repository"
)

// Service is the consistency coordinator for accounts and their transactions.
type Service struct {
	uow      repository.UnitOfWork
	locker   lock.Locker
	eventBus eventbus.Bus
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:      deps.Uow,
		locker:   deps.Locker,
		eventBus: deps.EventBus,
		logger:   logger.With("service", "ledger"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// publish emits evt after a commit. Callers hold the account lock so events
// for one account leave in commit order. Failures are logged only: the state
// change is already durable.
func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Emit(ctx, evt); err != nil {
		s.logger.Warn("event publication failed", "type", evt.Type(), "key", events.Key(evt), "error", err)
	}
}

func accountNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrAccountNotFound
	}
	return err
}
