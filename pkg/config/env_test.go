package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")

	assert.Equal(t, "test_value", GetEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", GetEnv("NONEXISTENT_VAR", "default"))
}

func TestEnvFile(t *testing.T) {
	t.Setenv(EnvFileVar, "")
	assert.Equal(t, ".env", EnvFile())

	t.Setenv(EnvFileVar, ".env.test")
	assert.Equal(t, ".env.test", EnvFile())
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, GetEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "not-a-bool")
	assert.False(t, GetEnvAsBool("TEST_BOOL", false))
	assert.True(t, GetEnvAsBool("NONEXISTENT_VAR", true))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "750ms")
	assert.Equal(t, 750*time.Millisecond, GetEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Second, GetEnvAsDuration("TEST_DURATION", time.Second))
}
