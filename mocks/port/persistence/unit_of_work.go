package persistence

import (
	"context"

	"github.com/dropfly/token-ledger/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of the persistence.UnitOfWork interface
type MockUnitOfWork struct {
	mock.Mock
}

// Begin provides a mock function
func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

// Commit provides a mock function
func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Rollback provides a mock function
func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// BalanceRepository provides a mock function
func (m *MockUnitOfWork) BalanceRepository(ctx context.Context) persistence.BalanceRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.BalanceRepository)
}

// TransactionRepository provides a mock function
func (m *MockUnitOfWork) TransactionRepository(ctx context.Context) persistence.TransactionRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.TransactionRepository)
}
