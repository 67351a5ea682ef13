package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
)

// Refund reverses a committed charge after the paid-for external operation
// failed. The credited amount is taken from the original spend transaction.
// DailySpent is deliberately left untouched: a deduct-refund-deduct loop must
// not be usable to stretch the daily cap within the same day.
func (s *Service) Refund(
	ctx context.Context,
	userID string,
	transactionID string,
	reason string,
) (*OperationResult, error) {
	if userID == "" {
		return failed(errs.ErrInvalidUserID), nil
	}
	if transactionID == "" {
		return failed(errs.ErrTransactionNotFound), nil
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	transactionRepo := s.uow.TransactionRepository(txCtx)

	original, err := transactionRepo.GetByID(txCtx, userID, transactionID)
	if err != nil {
		s.rollback(txCtx)
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return failed(err), nil
		}
		return nil, err
	}

	if original.Type != entity.TypeSpend {
		s.rollback(txCtx)
		return failed(fmt.Errorf("%w: transaction %s is of type %s", errs.ErrNotRefundable, transactionID, original.Type)), nil
	}

	// Duplicate-refund guard: the same charge must never be credited twice.
	// The unique index on refund_of backs this up at the store level.
	alreadyRefunded, err := transactionRepo.RefundExists(txCtx, transactionID)
	if err != nil {
		s.rollback(txCtx)
		return nil, err
	}
	if alreadyRefunded {
		s.rollback(txCtx)
		s.logger.Warn("Duplicate refund rejected", map[string]any{
			"user_id":        userID,
			"transaction_id": transactionID,
		})
		return failed(fmt.Errorf("%w: %s", errs.ErrDuplicateRefund, transactionID)), nil
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

	amount := original.Amount
	if amount < 0 {
		amount = -amount
	}

	if err := balance.ApplyCredit(amount, s.timeProvider); err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := balanceRepo.Update(txCtx, balance); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	refund, err := entity.NewRefundTransaction(original, reason, balance.Balance, s.timeProvider)
	if err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := transactionRepo.Create(txCtx, refund); err != nil {
		s.rollback(txCtx)
		if errors.Is(err, errs.ErrDuplicateRefund) {
			return failed(err), nil
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Tokens refunded", map[string]any{
		"user_id":        userID,
		"amount":         amount,
		"original_tx_id": transactionID,
		"refund_tx_id":   refund.ID,
		"new_balance":    balance.Balance,
		"reason":         reason,
	})

	return succeeded(balance.Balance, refund), nil
}

// RefundAmount credits back a raw amount when the caller has lost the
// original transaction id. It is exempt from the duplicate guard, so callers
// are expected to prefer Refund with the id returned by Deduct.
func (s *Service) RefundAmount(
	ctx context.Context,
	userID string,
	amount int64,
	reason string,
) (*OperationResult, error) {
	if userID == "" {
		return failed(errs.ErrInvalidUserID), nil
	}
	if amount <= 0 {
		return failed(fmt.Errorf("%w: refund amount %d", errs.ErrInvalidAmount, amount)), nil
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

	if err := balance.ApplyCredit(amount, s.timeProvider); err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := balanceRepo.Update(txCtx, balance); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	refund, err := entity.NewAmountRefundTransaction(userID, amount, reason, balance.Balance, s.timeProvider)
	if err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := s.uow.TransactionRepository(txCtx).Create(txCtx, refund); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Tokens refunded by amount", map[string]any{
		"user_id":      userID,
		"amount":       amount,
		"refund_tx_id": refund.ID,
		"new_balance":  balance.Balance,
		"reason":       reason,
	})

	return succeeded(balance.Balance, refund), nil
}
