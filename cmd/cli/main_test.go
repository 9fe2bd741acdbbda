package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/service/ledger"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *ledger.Service {
	t.Helper()
	color.NoColor = true
	cfg := &config.App{
		Env:      "test",
		Log:      &config.Log{},
		DB:       &config.DB{Driver: "sqlite", Url: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
		Redis:    &config.Redis{},
		Lock:     &config.Lock{Driver: "memory", Timeout: time.Second},
		EventBus: &config.EventBus{Driver: "memory"},
	}
	deps, cleanup, err := initializer.Initialize(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return app.New(deps, cfg).LedgerService
}

func runCLI(t *testing.T, svc *ledger.Service, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), svc, args, &out)
	return out.String(), err
}

func TestRun_AccountAndTransactionCommands(t *testing.T) {
	svc := newTestService(t)

	out, err := runCLI(t, svc, "account", "create", "A1", "500", "Alice", "savings")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created")
	assert.Contains(t, out, "500.00")

	_, err = runCLI(t, svc, "tx", "create", "T1", "A1", "1000", "deposit", "salary", "done")
	require.NoError(t, err)
	_, err = runCLI(t, svc, "tx", "create", "T2", "A1", "300", "Withdraw", "rent", "done")
	require.NoError(t, err)

	_, err = runCLI(t, svc, "tx", "create", "T3", "A1", "5000", "Withdraw", "car", "done")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	out, err = runCLI(t, svc, "account", "get", "A1")
	require.NoError(t, err)
	assert.Contains(t, out, "1200.00")

	out, err = runCLI(t, svc, "tx", "list", "A1")
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("T1")), bytes.Index([]byte(out), []byte("T2")))

	out, err = runCLI(t, svc, "tx", "get", "T2")
	require.NoError(t, err)
	assert.Contains(t, out, "Withdraw")

	out, err = runCLI(t, svc, "tx", "delete", "T2")
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction T2 deleted")

	out, err = runCLI(t, svc, "account", "delete", "A1")
	require.NoError(t, err)
	assert.Contains(t, out, "Account A1 deleted")

	_, err = runCLI(t, svc, "tx", "list", "A1")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRun_UsageErrors(t *testing.T) {
	svc := newTestService(t)

	cases := [][]string{
		{"account"},
		{"wallet", "get"},
		{"account", "rename", "A1"},
		{"account", "get"},
		{"tx", "create", "T1"},
		{"tx", "refund", "T1"},
	}
	for _, args := range cases {
		_, err := runCLI(t, svc, args...)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}

	_, err := runCLI(t, svc, "account", "create", "A1", "lots", "Alice", "Savings")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}
