package persistence

import (
	"context"

	"github.com/dropfly/token-ledger/internal/domain/entity"
)

// BalanceRepository defines access to per-user balance records
type BalanceRepository interface {
	// GetByUserID retrieves a user's balance record
	//
	// Possible errors:
	// - ErrUserNotFound: no balance record exists for the user
	// - ErrDatabaseConnection: the store is unreachable
	GetByUserID(ctx context.Context, userID string) (*entity.Balance, error)

	// GetForUpdate retrieves the balance record under an exclusive row lock.
	// Must be called inside a unit-of-work transaction; the lock serializes
	// concurrent mutations for the same user until commit or rollback.
	//
	// Possible errors:
	// - ErrUserNotFound: no balance record exists for the user
	// - ErrDatabaseConnection: the store is unreachable
	GetForUpdate(ctx context.Context, userID string) (*entity.Balance, error)

	// Create provisions a balance record for a new account
	//
	// Possible errors:
	// - ErrDuplicateBalance: a record already exists for the user
	// - ErrDatabaseConnection: the store is unreachable
	Create(ctx context.Context, balance *entity.Balance) error

	// Update persists a mutated balance record
	//
	// Possible errors:
	// - ErrUserNotFound: the record disappeared under us
	// - ErrDatabaseConnection: the store is unreachable
	Update(ctx context.Context, balance *entity.Balance) error
}
