package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
)

// AddTokens credits tokens for purchases, bonuses and grants. Credits bump
// the balance and lifetime_earned; they have no daily-limit interaction.
func (s *Service) AddTokens(
	ctx context.Context,
	userID string,
	txType entity.TransactionType,
	operation entity.Operation,
	amount int64,
	description string,
	metadata entity.Metadata,
) (*OperationResult, error) {
	if userID == "" {
		return failed(errs.ErrInvalidUserID), nil
	}
	if amount <= 0 {
		return failed(fmt.Errorf("%w: amount %d", errs.ErrInvalidAmount, amount)), nil
	}
	if !entity.IsValidCreditType(string(txType)) {
		return failed(fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txType)), nil
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

	if err := balance.ApplyCredit(amount, s.timeProvider); err != nil {
		s.rollback(txCtx)
		return failed(err), nil
	}

	if err := balanceRepo.Update(txCtx, balance); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	txn, err := entity.NewCreditTransaction(userID, txType, operation, amount, description, metadata, balance.Balance, s.timeProvider)
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

	s.logger.Info("Tokens added", map[string]any{
		"user_id":        userID,
		"type":           string(txType),
		"operation":      string(operation),
		"amount":         amount,
		"new_balance":    balance.Balance,
		"transaction_id": txn.ID,
	})

	return succeeded(balance.Balance, txn), nil
}

// GrantPackage credits a purchased token package including its bonus tokens
func (s *Service) GrantPackage(
	ctx context.Context,
	userID string,
	packageID string,
	description string,
) (*OperationResult, error) {
	pkg, err := entity.PackageByID(packageID)
	if err != nil {
		return failed(err), nil
	}

	metadata := entity.Metadata{
		"package_id":   pkg.ID,
		"base_tokens":  pkg.Tokens,
		"bonus_tokens": pkg.Bonus,
	}
	if description == "" {
		description = fmt.Sprintf("Purchased %s", pkg.Name)
	}

	return s.AddTokens(ctx, userID, entity.TypePurchase, entity.OpTokenPurchase, pkg.TotalTokens(), description, metadata)
}
