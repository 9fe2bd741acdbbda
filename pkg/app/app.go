package app

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/service/ledger"
)

type App struct {
	Deps          *config.Deps
	Config        *config.App
	LedgerService *ledger.Service
}

func New(deps *config.Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()
	app.LedgerService = ledger.NewService(*deps)
	return app
}
