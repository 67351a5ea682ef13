package persistence

import (
	"context"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockBalanceRepository is a mock implementation of the persistence.BalanceRepository interface
type MockBalanceRepository struct {
	mock.Mock
}

// GetByUserID provides a mock function
func (m *MockBalanceRepository) GetByUserID(ctx context.Context, userID string) (*entity.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Balance), args.Error(1)
}

// GetForUpdate provides a mock function
func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Balance), args.Error(1)
}

// Create provides a mock function
func (m *MockBalanceRepository) Create(ctx context.Context, balance *entity.Balance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// Update provides a mock function
func (m *MockBalanceRepository) Update(ctx context.Context, balance *entity.Balance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}
