package ledger

import (
	"context"
	"testing"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_AddTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("successful purchase credit", func(t *testing.T) {
		service, deps := newTestService(testTime)
		balance := balanceFixture("user-1", 100, 10, 50, testTime)

		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.uow.On("TransactionRepository", ctx).Return(deps.txRepo)
		deps.balanceRepo.On("GetForUpdate", ctx, "user-1").Return(balance, nil)
		deps.balanceRepo.On("Update", ctx, balance).Return(nil)
		deps.txRepo.On("Create", ctx, mock.AnythingOfType("*entity.Transaction")).Return(nil)
		deps.uow.On("Commit", ctx).Return(nil)

		result, err := service.AddTokens(ctx, "user-1", entity.TypePurchase, entity.OpTokenPurchase, 500, "Token purchase", nil)

		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, int64(600), result.NewBalance)
		assert.Equal(t, int64(610), balance.LifetimeEarned)

		// Credits never touch the daily counter
		assert.Equal(t, int64(10), balance.DailySpent)

		assert.Equal(t, int64(500), result.Transaction.Amount)
		assert.Equal(t, entity.TypePurchase, result.Transaction.Type)
	})

	t.Run("spend is not a valid credit type", func(t *testing.T) {
		service, deps := newTestService(testTime)

		result, err := service.AddTokens(ctx, "user-1", entity.TypeSpend, entity.OpTokenPurchase, 500, "", nil)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, errs.CodeInvalidOperation, result.ErrorCode)
		deps.uow.AssertNotCalled(t, "Begin")
	})

	t.Run("unknown operation", func(t *testing.T) {
		service, deps := newTestService(testTime)

		result, err := service.AddTokens(ctx, "user-1", entity.TypeEarn, entity.Operation("mystery"), 500, "", nil)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, errs.CodeInvalidOperation, result.ErrorCode)
		deps.uow.AssertNotCalled(t, "Begin")
	})

	t.Run("unknown user", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetForUpdate", ctx, "ghost").Return(nil, errs.ErrUserNotFound)
		deps.uow.On("Rollback", ctx).Return(nil)

		result, err := service.AddTokens(ctx, "ghost", entity.TypeEarn, entity.OpMonthlyGrant, 300, "", nil)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, errs.CodeUserNotFound, result.ErrorCode)
	})
}

func TestService_GrantPackage(t *testing.T) {
	ctx := context.Background()

	t.Run("package grant includes bonus tokens", func(t *testing.T) {
		service, deps := newTestService(testTime)
		balance := balanceFixture("user-1", 100, 0, 50, testTime)

		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.uow.On("TransactionRepository", ctx).Return(deps.txRepo)
		deps.balanceRepo.On("GetForUpdate", ctx, "user-1").Return(balance, nil)
		deps.balanceRepo.On("Update", ctx, balance).Return(nil)
		deps.txRepo.On("Create", ctx, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Amount == 1800 &&
				txn.Type == entity.TypePurchase &&
				txn.Metadata["package_id"] == "popular"
		})).Return(nil)
		deps.uow.On("Commit", ctx).Return(nil)

		result, err := service.GrantPackage(ctx, "user-1", "popular", "")

		require.NoError(t, err)
		require.True(t, result.Success)
		// 1500 base + 300 bonus
		assert.Equal(t, int64(1900), result.NewBalance)
		assert.Equal(t, "Purchased Popular Pack", result.Transaction.Description)
	})

	t.Run("unknown package", func(t *testing.T) {
		service, deps := newTestService(testTime)

		result, err := service.GrantPackage(ctx, "user-1", "mega", "")

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, errs.CodeInvalidOperation, result.ErrorCode)
		deps.uow.AssertNotCalled(t, "Begin")
	})
}
