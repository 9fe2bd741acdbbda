package config

import (
	"os"
	"strconv"
	"time"
)

// Process-level switches read outside the envconfig sections, by tools such
// as the CLI that run before (or without) a full Load.
const (
	EnvFileVar     = "LEDGER_ENV_FILE"
	NoColorVar     = "NO_COLOR"
	CLITimeoutVar  = "LEDGER_CLI_TIMEOUT"
	defaultEnvFile = ".env"
)

// EnvFile names the env file tools should load, ".env" unless overridden.
func EnvFile() string {
	return GetEnv(EnvFileVar, defaultEnvFile)
}

// GetEnv retrieves an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvAsBool retrieves an environment variable as bool with a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as time.Duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
