package ledger

import (
	"context"
	"errors"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
)

const defaultTransactionLimit = 50

// GetBalance returns the user's balance record with the lazy daily reset
// applied, so clients always see today's quota state
func (s *Service) GetBalance(ctx context.Context, userID string) (*entity.Balance, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	balance, err := s.uow.BalanceRepository(ctx).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !balance.NeedsDailyReset(s.timeProvider.Now()) {
		return balance, nil
	}

	// Persist the reset so the stored record matches what we report
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	balanceRepo := s.uow.BalanceRepository(txCtx)
	balance, err = balanceRepo.GetForUpdate(txCtx, userID)
	if err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	// Re-check under the lock: a concurrent deduct may have reset already
	if balance.NeedsDailyReset(s.timeProvider.Now()) {
		balance.ResetDaily(s.timeProvider)
		if err := balanceRepo.Update(txCtx, balance); err != nil {
			s.rollback(txCtx)
			return nil, err
		}
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	return balance, nil
}

// HasSufficientTokens reports whether the user's balance covers the required
// cost. This is a pre-check only; Deduct re-validates under the row lock.
func (s *Service) HasSufficientTokens(ctx context.Context, userID string, required int64) (bool, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return balance.CanSpend(required), nil
}

// GetTransactions returns the user's most recent transactions, newest first
func (s *Service) GetTransactions(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	return s.uow.TransactionRepository(ctx).ListByUserID(ctx, userID, limit)
}

// GetDailyLimitInfo returns today's quota usage for client display
func (s *Service) GetDailyLimitInfo(ctx context.Context, userID string) (*DailyLimitInfo, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	percentage := 0
	if balance.DailyLimit > 0 {
		percentage = int(balance.DailySpent * 100 / balance.DailyLimit)
	}

	return &DailyLimitInfo{
		DailySpent:     balance.DailySpent,
		DailyLimit:     balance.DailyLimit,
		DailyRemaining: balance.DailyRemaining(),
		PercentageUsed: percentage,
		ResetsAt:       balance.NextResetAt(s.timeProvider.Now()),
	}, nil
}

// CreateBalance provisions a balance record for a new account using the
// tier's starting grant and daily cap
func (s *Service) CreateBalance(ctx context.Context, userID, tier string) (*entity.Balance, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	allocation := entity.AllocationForTier(tier)
	balance, err := entity.NewBalance(userID, allocation.MonthlyTokens, allocation.DailyLimit, s.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.uow.BalanceRepository(txCtx).Create(txCtx, balance); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	// The starting grant shows up in the audit log like any other credit
	grant, err := entity.NewCreditTransaction(
		userID, entity.TypeEarn, entity.OpMonthlyGrant, allocation.MonthlyTokens,
		"Initial token grant for "+allocation.Tier+" tier", entity.Metadata{"tier": allocation.Tier},
		balance.Balance, s.timeProvider,
	)
	if err != nil {
		s.rollback(txCtx)
		return nil, err
	}
	if err := s.uow.TransactionRepository(txCtx).Create(txCtx, grant); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Token balance provisioned", map[string]any{
		"user_id":     userID,
		"tier":        allocation.Tier,
		"balance":     balance.Balance,
		"daily_limit": balance.DailyLimit,
	})

	return balance, nil
}
