package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/ledger/internal/fixtures/mocks"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mocks.MockUnitOfWork, *mocks.MockLocker, *mocks.MockBus) {
	t.Helper()
	uow := mocks.NewMockUnitOfWork(t)
	locker := mocks.NewMockLocker(t)
	bus := mocks.NewMockBus(t)
	svc := NewService(config.Deps{
		Uow:      uow,
		Locker:   locker,
		EventBus: bus,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	svc.now = func() time.Time { return fixedNow }
	return svc, uow, locker, bus
}

func existingAccount(balance int64) *account.Account {
	return account.NewAccountFromData(1, "A1", decimal.NewFromInt(balance), "Alice", account.TypeSavings, 4, fixedNow, fixedNow)
}

func TestCreateAccount_PublishFailureIsNotReturned(t *testing.T) {
	svc, uow, locker, bus := newTestService(t)
	ctx := context.Background()

	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Accounts.On("Create", ctx, mock.AnythingOfType("*account.Account")).Return(nil).Once()
	bus.On("Emit", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	a, err := svc.CreateAccount(ctx, CreateAccountCommand{
		Number: "A1", Balance: decimal.NewFromInt(10), CustomerName: "Alice", Type: account.TypeSavings,
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.Equal(t, fixedNow, a.UpdatedAt)
}

func TestCreateAccount_InvalidBalanceSkipsStore(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), CreateAccountCommand{
		Number: "", Balance: decimal.Zero, CustomerName: "", Type: "",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBalance)
}

func TestCreateTransaction_LockTimeout(t *testing.T) {
	svc, _, locker, _ := newTestService(t)
	ctx := context.Background()

	locker.On("WithLock", ctx, "account:A1").Return(domain.ErrLockTimeout).Once()

	_, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		TransactionID: "T1", AccountNumber: "A1", Amount: decimal.NewFromInt(5),
		Type: account.Deposit, Description: "d", Status: "s",
	})
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
}

func TestCreateTransaction_WritesEntryThenBalance(t *testing.T) {
	svc, uow, locker, bus := newTestService(t)
	ctx := context.Background()
	acct := existingAccount(100)

	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Transactions.On("Exists", ctx, "T1").Return(false, nil).Once()
	uow.Accounts.On("GetForUpdate", ctx, "A1").Return(acct, nil).Once()
	uow.Transactions.On("Create", ctx, mock.MatchedBy(func(tx *account.Transaction) bool {
		return tx.TransactionID == "T1" && tx.AccountNumber == "A1" && tx.Timestamp.Equal(fixedNow)
	})).Return(nil).Once()
	uow.Accounts.On("Update", ctx, mock.MatchedBy(func(a *account.Account) bool {
		return a.Balance.Equal(decimal.NewFromInt(60))
	})).Return(nil).Once()
	bus.On("Emit", ctx, mock.Anything).Return(nil).Once()

	tx, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		TransactionID: "T1", AccountNumber: "A1", Amount: decimal.NewFromInt(40),
		Type: account.Withdraw, Description: "rent", Status: "ok",
	})
	require.NoError(t, err)
	assert.Equal(t, "T1", tx.TransactionID)
}

func TestCreateTransaction_TrimsAccountNumber(t *testing.T) {
	svc, uow, locker, bus := newTestService(t)
	ctx := context.Background()

	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Transactions.On("Exists", ctx, "T1").Return(false, nil).Once()
	uow.Accounts.On("GetForUpdate", ctx, "A1").Return(existingAccount(100), nil).Once()
	uow.Transactions.On("Create", ctx, mock.MatchedBy(func(tx *account.Transaction) bool {
		return tx.AccountNumber == "A1"
	})).Return(nil).Once()
	uow.Accounts.On("Update", ctx, mock.Anything).Return(nil).Once()
	bus.On("Emit", ctx, mock.Anything).Return(nil).Once()

	tx, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		TransactionID: "T1", AccountNumber: "  A1 ", Amount: decimal.NewFromInt(5),
		Type: account.Deposit, Description: "d", Status: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "A1", tx.AccountNumber)
}

func TestCreateTransaction_InsufficientFundsWritesNothing(t *testing.T) {
	svc, uow, locker, _ := newTestService(t)
	ctx := context.Background()

	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Transactions.On("Exists", ctx, "T1").Return(false, nil).Once()
	uow.Accounts.On("GetForUpdate", ctx, "A1").Return(existingAccount(10), nil).Once()

	_, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		TransactionID: "T1", AccountNumber: "A1", Amount: decimal.NewFromInt(11),
		Type: account.Withdraw, Description: "d", Status: "s",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	uow.Transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	uow.Accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateTransaction_ConflictPropagates(t *testing.T) {
	svc, uow, locker, _ := newTestService(t)
	ctx := context.Background()

	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Transactions.On("Exists", ctx, "T1").Return(false, nil).Once()
	uow.Accounts.On("GetForUpdate", ctx, "A1").Return(existingAccount(10), nil).Once()
	uow.Transactions.On("Create", ctx, mock.Anything).Return(nil).Once()
	uow.Accounts.On("Update", ctx, mock.Anything).Return(domain.ErrConflict).Once()

	_, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		TransactionID: "T1", AccountNumber: "A1", Amount: decimal.NewFromInt(1),
		Type: account.Deposit, Description: "d", Status: "s",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateTransaction_StorageFailureOnLookup(t *testing.T) {
	svc, uow, locker, _ := newTestService(t)
	ctx := context.Background()
	storageErr := domain.StorageError("database", errors.New("connection refused"))

	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Transactions.On("Exists", ctx, "T1").Return(false, nil).Once()
	uow.Accounts.On("GetForUpdate", ctx, "A1").Return(nil, storageErr).Once()

	_, err := svc.CreateTransaction(ctx, CreateTransactionCommand{
		TransactionID: "T1", AccountNumber: "A1", Amount: decimal.NewFromInt(1),
		Type: account.Deposit, Description: "d", Status: "s",
	})
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.NotErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestUpdateAccount_FallsBackToID(t *testing.T) {
	svc, uow, locker, bus := newTestService(t)
	ctx := context.Background()
	acct := existingAccount(100)

	uow.Accounts.On("Get", ctx, "1").Return(nil, domain.ErrNotFound).Once()
	uow.Accounts.On("GetByID", ctx, uint(1)).Return(acct, nil).Once()
	locker.On("WithLock", ctx, "account:A1").Return(nil).Once()
	uow.Accounts.On("GetForUpdate", ctx, "A1").Return(acct, nil).Once()
	uow.Accounts.On("Update", ctx, acct).Return(nil).Once()
	bus.On("Emit", ctx, mock.Anything).Return(nil).Once()

	updated, err := svc.UpdateAccount(ctx, "1", account.Replacement{
		Number: "A1", Balance: decimal.NewFromInt(5), CustomerName: "Al", Type: account.TypeChecking,
	})
	require.NoError(t, err)
	assert.Equal(t, "Al", updated.CustomerName)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
}

func TestUpdateAccount_NonNumericRefNotFound(t *testing.T) {
	svc, uow, _, _ := newTestService(t)
	ctx := context.Background()

	uow.Accounts.On("Get", ctx, "nope").Return(nil, domain.ErrNotFound).Once()

	_, err := svc.UpdateAccount(ctx, "nope", account.Replacement{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
