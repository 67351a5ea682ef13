package persistence

import (
	"context"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock implementation of the persistence.TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

// Create provides a mock function
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// GetByID provides a mock function
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, transactionID string) (*entity.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// ListByUserID provides a mock function
func (m *MockTransactionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

// RefundExists provides a mock function
func (m *MockTransactionRepository) RefundExists(ctx context.Context, originalTransactionID string) (bool, error) {
	args := m.Called(ctx, originalTransactionID)
	return args.Bool(0), args.Error(1)
}
