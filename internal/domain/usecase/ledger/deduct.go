package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
)

// Deduct gates a paid operation on sufficient credit. Inside a single locked
// transaction it applies the lazy daily reset, checks the cap and the
// balance, commits the decrement and appends the spend record. The returned
// transaction id is what callers pass back to Refund when the paid operation
// later fails.
func (s *Service) Deduct(
	ctx context.Context,
	userID string,
	operation entity.Operation,
	cost int64,
	description string,
	metadata entity.Metadata,
) (*OperationResult, error) {
	if userID == "" {
		return failed(errs.ErrInvalidUserID), nil
	}
	if cost <= 0 {
		return failed(fmt.Errorf("%w: cost %d", errs.ErrInvalidAmount, cost)), nil
	}
	if !entity.IsValidOperation(string(operation)) {
		return failed(fmt.Errorf("%w: %s", errs.ErrInvalidOperation, operation)), nil
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	balanceRepo := s.uow.BalanceRepository(txCtx)

	balance, err := balanceRepo.GetForUpdate(txCtx, userID)
	if err != nil {
		s.rollback(txCtx)
		if errors.Is(err, errs.ErrUserNotFound) {
			return failed(err), nil
		}
		return nil, err
	}

	// Lazy reset: the cap is a rolling daily quota, evaluated against the
	// current calendar date, not against when a reset job last ran
	now := s.timeProvider.Now()
	if balance.NeedsDailyReset(now) {
		s.logger.Debug("Resetting daily token counter", map[string]any{
			"user_id":         userID,
			"previous_spent":  balance.DailySpent,
			"last_reset_date": balance.LastResetDate,
		})
		balance.ResetDaily(s.timeProvider)
	}

	if !balance.WithinDailyLimit(cost) {
		s.rollback(txCtx)
		s.logger.Info("Deduction rejected by daily limit", map[string]any{
			"user_id":     userID,
			"operation":   string(operation),
			"cost":        cost,
			"daily_spent": balance.DailySpent,
			"daily_limit": balance.DailyLimit,
		})
		return failed(errs.NewDailyLimitExceededError(userID, cost, balance.DailySpent, balance.DailyLimit)), nil
	}

	if !balance.CanSpend(cost) {
		s.rollback(txCtx)
		s.logger.Info("Deduction rejected by insufficient balance", map[string]any{
			"user_id":   userID,
			"operation": string(operation),
			"cost":      cost,
			"balance":   balance.Balance,
		})
		return failed(errs.NewInsufficientTokensError(userID, cost, balance.Balance)), nil
	}

	if err := balance.ApplySpend(cost, s.timeProvider); err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := balanceRepo.Update(txCtx, balance); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	txn, err := entity.NewSpendTransaction(userID, operation, cost, description, metadata, balance.Balance, s.timeProvider)
	if err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := s.uow.TransactionRepository(txCtx).Create(txCtx, txn); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Tokens deducted", map[string]any{
		"user_id":        userID,
		"operation":      string(operation),
		"cost":           cost,
		"new_balance":    balance.Balance,
		"daily_spent":    balance.DailySpent,
		"transaction_id": txn.ID,
	})

	return succeeded(balance.Balance, txn), nil
}
