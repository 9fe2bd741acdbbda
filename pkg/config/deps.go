package config

import (
	"log/slog"

	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/amirasaad/ledger/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow      repository.UnitOfWork
	Locker   lock.Locker
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Config   *App
}
