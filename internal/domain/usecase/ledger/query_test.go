package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("same-day read does not touch the store", func(t *testing.T) {
		service, deps := newTestService(testTime)
		balance := balanceFixture("user-1", 100, 5, 15, testTime)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "user-1").Return(balance, nil)

		got, err := service.GetBalance(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Balance)
		assert.Equal(t, int64(5), got.DailySpent)
		deps.uow.AssertNotCalled(t, "Begin")
	})

	t.Run("stale daily counter is reset and persisted", func(t *testing.T) {
		yesterday := testTime.AddDate(0, 0, -1)
		service, deps := newTestService(testTime)
		stale := balanceFixture("user-1", 100, 15, 15, yesterday)
		locked := balanceFixture("user-1", 100, 15, 15, yesterday)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "user-1").Return(stale, nil)
		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.balanceRepo.On("GetForUpdate", ctx, "user-1").Return(locked, nil)
		deps.balanceRepo.On("Update", ctx, locked).Return(nil)
		deps.uow.On("Commit", ctx).Return(nil)

		got, err := service.GetBalance(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, int64(0), got.DailySpent)
		assert.Equal(t, entity.DayUTC(testTime), got.LastResetDate)
		deps.balanceRepo.AssertCalled(t, "Update", ctx, locked)
	})

	t.Run("concurrent reset detected under the lock is not repeated", func(t *testing.T) {
		yesterday := testTime.AddDate(0, 0, -1)
		service, deps := newTestService(testTime)
		stale := balanceFixture("user-1", 100, 15, 15, yesterday)
		// By the time the lock is held, another request already reset
		fresh := balanceFixture("user-1", 100, 0, 15, testTime)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "user-1").Return(stale, nil)
		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.balanceRepo.On("GetForUpdate", ctx, "user-1").Return(fresh, nil)
		deps.uow.On("Commit", ctx).Return(nil)

		got, err := service.GetBalance(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, int64(0), got.DailySpent)
		deps.balanceRepo.AssertNotCalled(t, "Update")
	})

	t.Run("unknown user", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "ghost").Return(nil, errs.ErrUserNotFound)

		got, err := service.GetBalance(ctx, "ghost")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("empty user id", func(t *testing.T) {
		service, _ := newTestService(testTime)

		got, err := service.GetBalance(ctx, "")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestService_HasSufficientTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("sufficient", func(t *testing.T) {
		service, deps := newTestService(testTime)
		balance := balanceFixture("user-1", 100, 0, 15, testTime)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "user-1").Return(balance, nil)

		ok, err := service.HasSufficientTokens(ctx, "user-1", 100)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("insufficient", func(t *testing.T) {
		service, deps := newTestService(testTime)
		balance := balanceFixture("user-1", 100, 0, 15, testTime)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "user-1").Return(balance, nil)

		ok, err := service.HasSufficientTokens(ctx, "user-1", 101)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown user is reported as insufficient, not as an error", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("GetByUserID", ctx, "ghost").Return(nil, errs.ErrUserNotFound)

		ok, err := service.HasSufficientTokens(ctx, "ghost", 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestService_GetTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit limit is passed through", func(t *testing.T) {
		service, deps := newTestService(testTime)
		history := []*entity.Transaction{spendFixture("user-1", "tx-1", 5)}

		deps.uow.On("TransactionRepository", ctx).Return(deps.txRepo)
		deps.txRepo.On("ListByUserID", ctx, "user-1", 10).Return(history, nil)

		got, err := service.GetTransactions(ctx, "user-1", 10)

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("TransactionRepository", ctx).Return(deps.txRepo)
		deps.txRepo.On("ListByUserID", ctx, "user-1", 50).Return([]*entity.Transaction{}, nil)

		_, err := service.GetTransactions(ctx, "user-1", 0)

		require.NoError(t, err)
		deps.txRepo.AssertCalled(t, "ListByUserID", ctx, "user-1", 50)
	})

	t.Run("empty user id", func(t *testing.T) {
		service, _ := newTestService(testTime)

		got, err := service.GetTransactions(ctx, "", 10)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestService_GetDailyLimitInfo(t *testing.T) {
	ctx := context.Background()

	service, deps := newTestService(testTime)
	balance := balanceFixture("user-1", 100, 9, 15, testTime)

	deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
	deps.balanceRepo.On("GetByUserID", ctx, "user-1").Return(balance, nil)

	info, err := service.GetDailyLimitInfo(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(9), info.DailySpent)
	assert.Equal(t, int64(15), info.DailyLimit)
	assert.Equal(t, int64(6), info.DailyRemaining)
	assert.Equal(t, 60, info.PercentageUsed)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), info.ResetsAt)
}

func TestService_CreateBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions with tier allocation and initial grant record", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.uow.On("TransactionRepository", ctx).Return(deps.txRepo)
		deps.balanceRepo.On("Create", ctx, mock.AnythingOfType("*entity.Balance")).Return(nil)
		deps.txRepo.On("Create", ctx, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Type == entity.TypeEarn &&
				txn.Operation == entity.OpMonthlyGrant &&
				txn.Amount == 2000 &&
				txn.Metadata["tier"] == "starter"
		})).Return(nil)
		deps.uow.On("Commit", ctx).Return(nil)

		balance, err := service.CreateBalance(ctx, "user-1", "starter")

		require.NoError(t, err)
		assert.Equal(t, int64(2000), balance.Balance)
		assert.Equal(t, int64(100), balance.DailyLimit)
		assert.Equal(t, int64(0), balance.DailySpent)
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.uow.On("TransactionRepository", ctx).Return(deps.txRepo)
		deps.balanceRepo.On("Create", ctx, mock.AnythingOfType("*entity.Balance")).Return(nil)
		deps.txRepo.On("Create", ctx, mock.AnythingOfType("*entity.Transaction")).Return(nil)
		deps.uow.On("Commit", ctx).Return(nil)

		balance, err := service.CreateBalance(ctx, "user-1", "platinum")

		require.NoError(t, err)
		assert.Equal(t, int64(300), balance.Balance)
		assert.Equal(t, int64(15), balance.DailyLimit)
	})

	t.Run("duplicate account", func(t *testing.T) {
		service, deps := newTestService(testTime)

		deps.uow.On("Begin", ctx).Return(ctx, nil)
		deps.uow.On("BalanceRepository", ctx).Return(deps.balanceRepo)
		deps.balanceRepo.On("Create", ctx, mock.AnythingOfType("*entity.Balance")).Return(errs.ErrDuplicateBalance)
		deps.uow.On("Rollback", ctx).Return(nil)

		balance, err := service.CreateBalance(ctx, "user-1", "free")

		assert.Nil(t, balance)
		assert.ErrorIs(t, err, errs.ErrDuplicateBalance)
	})
}
