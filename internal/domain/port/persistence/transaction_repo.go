package persistence

import (
	"context"

	"github.com/dropfly/token-ledger/internal/domain/entity"
)

// TransactionRepository defines access to the append-only transaction log
type TransactionRepository interface {
	// Create appends a transaction record. Records are immutable once written.
	//
	// Possible errors:
	// - ErrDuplicateRefund: a refund for the same original transaction already exists
	// - ErrDatabaseConnection: the store is unreachable
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction by id, scoped to the given user
	//
	// Possible errors:
	// - ErrTransactionNotFound: no such transaction for this user
	// - ErrDatabaseConnection: the store is unreachable
	GetByID(ctx context.Context, userID, transactionID string) (*entity.Transaction, error)

	// ListByUserID returns the user's most recent transactions, newest first
	//
	// Possible errors:
	// - ErrDatabaseConnection: the store is unreachable
	ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error)

	// RefundExists reports whether a refund referencing the given original
	// transaction id has already been recorded. Used by the duplicate-refund
	// guard before crediting.
	//
	// Possible errors:
	// - ErrDatabaseConnection: the store is unreachable
	RefundExists(ctx context.Context, originalTransactionID string) (bool, error)
}
