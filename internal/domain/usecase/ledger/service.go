package ledger

import (
	"context"

	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/domain/port/persistence"
)

// Service is the component of record for all balance-affecting operations.
// Every mutation runs inside a unit-of-work transaction holding an exclusive
// lock on the user's balance row, which linearizes concurrent calls per user.
type Service struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new ledger service
func NewService(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// rollback discards an open unit of work, logging rather than returning the
// error: we are already on a failure path and must not mask the cause
func (s *Service) rollback(ctx context.Context) {
	if err := s.uow.Rollback(ctx); err != nil {
		s.logger.Error("Failed to roll back ledger transaction", map[string]any{
			"error": err.Error(),
		})
	}
}
