package persistence

import (
	"context"
)

// UnitOfWork coordinates a balance mutation and its transaction record inside
// a single database transaction, so a deduct either fully commits (balance
// updated and spend logged) or leaves no trace
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// BalanceRepository returns a balance repository bound to the current transaction
	BalanceRepository(ctx context.Context) BalanceRepository

	// TransactionRepository returns a transaction repository bound to the current transaction
	TransactionRepository(ctx context.Context) TransactionRepository
}
