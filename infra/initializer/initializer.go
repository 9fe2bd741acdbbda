package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/ledger/infra"
	infra_repository "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Cleanup releases what InitializeDependencies opened, in reverse order.
type Cleanup func() error

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *config.Deps,
	cleanup Cleanup,
	err error,
) {
	logger := setupLogger(cfg.Log)
	return Initialize(context.Background(), cfg, logger)
}

// Initialize wires the store, locks and event bus with an existing logger.
func Initialize(ctx context.Context, cfg *config.App, logger *slog.Logger) (
	deps *config.Deps,
	cleanup Cleanup,
	err error,
) {
	var closers []io.Closer
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i].Close())
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = closeAll()
		}
	}()

	deps = &config.Deps{Logger: logger, Config: cfg}

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		closers = append(closers, sqlDB)
	}
	if err = infra.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize unit of work
	deps.Uow = infra_repository.NewUoW(db)

	var client *redis.Client
	if infra.NeedsRedis(cfg) {
		client, err = infra.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		closers = append(closers, client)
	}

	// A nil *redis.Client must not become a non-nil interface.
	var universal redis.UniversalClient
	if client != nil {
		universal = client
	}

	deps.Locker, err = infra.NewLocker(cfg, universal, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create account locker: %w", err)
	}

	bus, err := infra.NewEventBus(cfg, universal, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	if c, ok := bus.(io.Closer); ok {
		closers = append(closers, c)
	}
	deps.EventBus = bus

	logger.Info("Dependencies initialized",
		"db_driver", cfg.DB.Driver,
		"lock_driver", cfg.Lock.Driver,
		"eventbus_driver", cfg.EventBus.Driver,
	)
	return deps, closeAll, nil
}
