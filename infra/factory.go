package infra

import (
	"context"
	"fmt"
	"log/slog"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	infra_lock "github.com/amirasaad/ledger/infra/lock"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the configured Redis and verifies it answers.
func NewRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// NewLocker builds the per-account Locker selected by LOCK_DRIVER. client is
// only used by the redis driver.
func NewLocker(
	cfg *config.App,
	client redis.UniversalClient,
	logger *slog.Logger,
) (lock.Locker, error) {
	switch cfg.Lock.Driver {
	case "", "memory":
		logger.Info("Using in-process account locks", "timeout", cfg.Lock.Timeout)
		return infra_lock.NewMemoryLocker(cfg.Lock.Timeout, logger), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis lock driver requires a redis client")
		}
		logger.Info("Using Redis account locks", "timeout", cfg.Lock.Timeout, "expiry", cfg.Lock.Expiry)
		return infra_lock.NewRedisLocker(client, infra_lock.RedisOptions{
			Timeout:    cfg.Lock.Timeout,
			Expiry:     cfg.Lock.Expiry,
			Tries:      cfg.Lock.Tries,
			RetryDelay: cfg.Lock.RetryDelay,
			KeyPrefix:  cfg.Redis.KeyPrefix + "lock:",
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported lock driver %q", cfg.Lock.Driver)
	}
}

// NewEventBus builds the event bus selected by EVENTBUS_DRIVER.
func NewEventBus(
	cfg *config.App,
	client redis.UniversalClient,
	logger *slog.Logger,
) (eventbus.Bus, error) {
	switch cfg.EventBus.Driver {
	case "", "memory":
		logger.Info("Using in-memory event bus")
		return infra_eventbus.NewWithMemory(logger), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis event bus requires a redis client")
		}
		logger.Info("Using Redis Streams event bus", "stream", cfg.EventBus.Stream)
		return infra_eventbus.NewRedisEventBus(client, cfg.EventBus.Stream, cfg.EventBus.Group, logger), nil
	case "kafka":
		logger.Info("Using Kafka event bus", "brokers", cfg.EventBus.KafkaBrokers, "topic", cfg.EventBus.KafkaTopic)
		return infra_eventbus.NewWithKafka(cfg.EventBus.KafkaBrokers, logger, &infra_eventbus.KafkaEventBusConfig{
			GroupID: cfg.EventBus.Group,
			Topic:   cfg.EventBus.KafkaTopic,
		})
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", cfg.EventBus.Driver)
	}
}

// NeedsRedis reports whether any configured component talks to Redis.
func NeedsRedis(cfg *config.App) bool {
	return cfg.Lock.Driver == "redis" || cfg.EventBus.Driver == "redis"
}
