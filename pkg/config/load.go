package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (searching parent
// directories), falls back to ./.env, then processes the environment.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"db_driver", cfg.DB.Driver,
		"db", maskValue(cfg.DB.Url),
		"redis", maskValue(cfg.Redis.URL),
		"lock_driver", cfg.Lock.Driver,
		"lock_timeout", cfg.Lock.Timeout,
		"eventbus_driver", cfg.EventBus.Driver,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

func (c *App) validate() error {
	if !slices.Contains([]string{"postgres", "sqlite"}, c.DB.Driver) {
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DB.Driver)
	}
	if !slices.Contains([]string{"memory", "redis"}, c.Lock.Driver) {
		return fmt.Errorf("LOCK_DRIVER must be memory or redis, got %q", c.Lock.Driver)
	}
	if !slices.Contains([]string{"memory", "redis", "kafka"}, c.EventBus.Driver) {
		return fmt.Errorf("EVENTBUS_DRIVER must be memory, redis or kafka, got %q", c.EventBus.Driver)
	}
	if c.Lock.Timeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive, got %s", c.Lock.Timeout)
	}
	return nil
}
