// Package mocks provides testify mocks for the repository, lock and event bus
// interfaces.
package mocks

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/lock"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository is a mock of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func NewMockAccountRepository(t testingT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) Get(ctx context.Context, number string) (*account.Account, error) {
	args := m.Called(ctx, number)
	a, _ := args.Get(0).(*account.Account)
	return a, args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*account.Account)
	return a, args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, number string) (*account.Account, error) {
	args := m.Called(ctx, number)
	a, _ := args.Get(0).(*account.Account)
	return a, args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, a *account.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, number string) error {
	return m.Called(ctx, number).Error(0)
}

// MockTransactionRepository is a mock of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func NewMockTransactionRepository(t testingT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, transactionID string) (*account.Transaction, error) {
	args := m.Called(ctx, transactionID)
	tx, _ := args.Get(0).(*account.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *account.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, transactionID string) error {
	return m.Called(ctx, transactionID).Error(0)
}

func (m *MockTransactionRepository) DeleteByAccount(ctx context.Context, accountNumber string) (int64, error) {
	args := m.Called(ctx, accountNumber)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]*account.Transaction, error) {
	args := m.Called(ctx, accountNumber)
	list, _ := args.Get(0).([]*account.Transaction)
	return list, args.Error(1)
}

// MockUnitOfWork runs Do callbacks inline with itself and hands out the
// configured repositories. Do's result can be overridden with On("Do").
type MockUnitOfWork struct {
	mock.Mock
	Accounts     *MockAccountRepository
	Transactions *MockTransactionRepository
}

func NewMockUnitOfWork(t testingT) *MockUnitOfWork {
	return &MockUnitOfWork{
		Accounts:     NewMockAccountRepository(t),
		Transactions: NewMockTransactionRepository(t),
	}
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(m)
}

func (m *MockUnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return m.Accounts, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return m.Transactions, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (m *MockUnitOfWork) AccountRepository() (repository.AccountRepository, error) {
	return m.Accounts, nil
}

func (m *MockUnitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	return m.Transactions, nil
}

// MockBus is a mock of eventbus.Bus.
type MockBus struct {
	mock.Mock
}

func NewMockBus(t testingT) *MockBus {
	m := &MockBus{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBus) Emit(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	m.Called(eventType, handler)
}

// MockLocker is a mock of lock.Locker. Unless a call returns an error, fn runs
// inline.
type MockLocker struct {
	mock.Mock
}

func NewMockLocker(t testingT) *MockLocker {
	m := &MockLocker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := m.Called(ctx, key).Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

var (
	_ repository.AccountRepository     = (*MockAccountRepository)(nil)
	_ repository.TransactionRepository = (*MockTransactionRepository)(nil)
	_ repository.UnitOfWork            = (*MockUnitOfWork)(nil)
	_ eventbus.Bus                     = (*MockBus)(nil)
	_ lock.Locker                      = (*MockLocker)(nil)
)
