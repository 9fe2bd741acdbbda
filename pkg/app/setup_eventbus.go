// Package app assembles the ledger service and registers the event handlers
// that run on committed ledger changes.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// setupEventBus registers all event handlers with the provided event Bus.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	logger := a.Deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a.setupAccountHandlers(bus, logger)
	a.setupTransactionHandlers(bus, logger)
}

func (a *App) setupAccountHandlers(bus eventbus.Bus, logger *slog.Logger) {
	for _, t := range []events.EventType{
		events.AccountCreated,
		events.AccountUpdated,
		events.AccountDeleted,
	} {
		bus.Register(t, HandleActivity(logger))
	}
}

func (a *App) setupTransactionHandlers(bus eventbus.Bus, logger *slog.Logger) {
	for _, t := range []events.EventType{
		events.TransactionCreated,
		events.TransactionUpdated,
		events.TransactionDeleted,
	} {
		bus.Register(t, HandleActivity(logger))
	}
}

// HandleActivity records every committed ledger change in the activity log.
func HandleActivity(logger *slog.Logger) eventbus.HandlerFunc {
	logger = logger.With("handler", "activity")
	return func(ctx context.Context, e events.Event) error {
		switch evt := e.(type) {
		case *events.AccountEvent:
			logger.InfoContext(ctx, "account activity",
				"event_id", evt.EventID,
				"type", evt.Kind,
				"account_number", evt.AccountNumber,
				"balance", evt.Balance,
			)
		case *events.TransactionEvent:
			logger.InfoContext(ctx, "transaction activity",
				"event_id", evt.EventID,
				"type", evt.Kind,
				"account_number", evt.AccountNumber,
				"transaction_id", evt.TransactionID,
				"amount", evt.Amount,
				"delta", evt.Delta,
				"balance", evt.Balance,
			)
		default:
			return fmt.Errorf("unexpected event type %T", e)
		}
		return nil
	}
}
