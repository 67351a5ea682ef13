package entity

import (
	"testing"
	"time"

	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coremocks "github.com/dropfly/token-ledger/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTimeProvider(fixedTime time.Time) *coremocks.MockTimeProvider {
	mockTime := new(coremocks.MockTimeProvider)
	mockTime.On("Now").Return(fixedTime)
	return mockTime
}

func TestNewBalance(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(fixedTime)

	t.Run("Valid balance creation", func(t *testing.T) {
		balance, err := NewBalance("user-1", 300, 15, mockTime)

		require.NoError(t, err)
		assert.Equal(t, "user-1", balance.UserID)
		assert.Equal(t, int64(300), balance.Balance)
		assert.Equal(t, int64(300), balance.LifetimeEarned)
		assert.Equal(t, int64(0), balance.LifetimeSpent)
		assert.Equal(t, int64(0), balance.DailySpent)
		assert.Equal(t, int64(15), balance.DailyLimit)
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), balance.LastResetDate)
		assert.Equal(t, fixedTime, balance.CreatedAt)
	})

	t.Run("Empty user ID", func(t *testing.T) {
		balance, err := NewBalance("", 300, 15, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		assert.Nil(t, balance)
	})

	t.Run("Negative starting tokens", func(t *testing.T) {
		balance, err := NewBalance("user-1", -1, 15, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Nil(t, balance)
	})

	t.Run("Zero daily limit", func(t *testing.T) {
		balance, err := NewBalance("user-1", 300, 0, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Nil(t, balance)
	})
}

func TestBalance_NeedsDailyReset(t *testing.T) {
	day1 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(day1)

	balance, err := NewBalance("user-1", 300, 15, mockTime)
	require.NoError(t, err)

	t.Run("Same day does not need reset", func(t *testing.T) {
		laterSameDay := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
		assert.False(t, balance.NeedsDailyReset(laterSameDay))
	})

	t.Run("Next day needs reset", func(t *testing.T) {
		nextMidnight := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
		assert.True(t, balance.NeedsDailyReset(nextMidnight))
	})

	t.Run("Date boundary is evaluated in UTC", func(t *testing.T) {
		// 2025-06-15 20:00 in UTC-5 is 2025-06-16 01:00 UTC, a new day
		loc := time.FixedZone("UTC-5", -5*3600)
		localEvening := time.Date(2025, 6, 15, 20, 0, 0, 0, loc)
		assert.True(t, balance.NeedsDailyReset(localEvening))
	})
}

func TestBalance_ResetDaily(t *testing.T) {
	day1 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)

	balance, err := NewBalance("user-1", 300, 15, fixedTimeProvider(day1))
	require.NoError(t, err)

	require.NoError(t, balance.ApplySpend(10, fixedTimeProvider(day1)))
	require.Equal(t, int64(10), balance.DailySpent)

	balance.ResetDaily(fixedTimeProvider(day2))

	assert.Equal(t, int64(0), balance.DailySpent)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), balance.LastResetDate)
	assert.False(t, balance.NeedsDailyReset(day2))

	// The reset restores quota, not balance
	assert.Equal(t, int64(290), balance.Balance)
	assert.Equal(t, int64(10), balance.LifetimeSpent)
}

func TestBalance_ApplySpend(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(fixedTime)

	t.Run("Spend decrements balance and bumps counters", func(t *testing.T) {
		balance, err := NewBalance("user-1", 100, 50, mockTime)
		require.NoError(t, err)

		require.NoError(t, balance.ApplySpend(30, mockTime))

		assert.Equal(t, int64(70), balance.Balance)
		assert.Equal(t, int64(30), balance.DailySpent)
		assert.Equal(t, int64(30), balance.LifetimeSpent)
		assert.Equal(t, int64(100), balance.LifetimeEarned)
	})

	t.Run("Spend exceeding balance is rejected", func(t *testing.T) {
		balance, err := NewBalance("user-1", 10, 50, mockTime)
		require.NoError(t, err)

		err = balance.ApplySpend(11, mockTime)

		assert.ErrorIs(t, err, errs.ErrInsufficientTokens)
		assert.Equal(t, int64(10), balance.Balance)
		assert.Equal(t, int64(0), balance.DailySpent)
	})

	t.Run("Non-positive cost is rejected", func(t *testing.T) {
		balance, err := NewBalance("user-1", 10, 50, mockTime)
		require.NoError(t, err)

		assert.ErrorIs(t, balance.ApplySpend(0, mockTime), errs.ErrInvalidAmount)
		assert.ErrorIs(t, balance.ApplySpend(-5, mockTime), errs.ErrInvalidAmount)
	})

	t.Run("Spending the whole balance leaves exactly zero", func(t *testing.T) {
		balance, err := NewBalance("user-1", 10, 50, mockTime)
		require.NoError(t, err)

		require.NoError(t, balance.ApplySpend(10, mockTime))
		assert.Equal(t, int64(0), balance.Balance)
	})
}

func TestBalance_ApplyCredit(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(fixedTime)

	t.Run("Credit bumps balance and lifetime earned only", func(t *testing.T) {
		balance, err := NewBalance("user-1", 100, 50, mockTime)
		require.NoError(t, err)
		require.NoError(t, balance.ApplySpend(20, mockTime))

		require.NoError(t, balance.ApplyCredit(20, mockTime))

		assert.Equal(t, int64(100), balance.Balance)
		assert.Equal(t, int64(120), balance.LifetimeEarned)
		// Refunding never reclaims daily quota
		assert.Equal(t, int64(20), balance.DailySpent)
		assert.Equal(t, int64(20), balance.LifetimeSpent)
	})

	t.Run("Non-positive amount is rejected", func(t *testing.T) {
		balance, err := NewBalance("user-1", 100, 50, mockTime)
		require.NoError(t, err)

		assert.ErrorIs(t, balance.ApplyCredit(0, mockTime), errs.ErrInvalidAmount)
		assert.ErrorIs(t, balance.ApplyCredit(-1, mockTime), errs.ErrInvalidAmount)
	})
}

func TestBalance_WithinDailyLimit(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(fixedTime)

	balance, err := NewBalance("user-1", 1000, 15, mockTime)
	require.NoError(t, err)
	require.NoError(t, balance.ApplySpend(10, mockTime))

	// Boundary: a spend landing exactly on the cap is allowed
	assert.True(t, balance.WithinDailyLimit(5))
	assert.False(t, balance.WithinDailyLimit(6))
}

func TestBalance_DailyRemaining(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(fixedTime)

	balance, err := NewBalance("user-1", 1000, 15, mockTime)
	require.NoError(t, err)

	assert.Equal(t, int64(15), balance.DailyRemaining())

	require.NoError(t, balance.ApplySpend(15, mockTime))
	assert.Equal(t, int64(0), balance.DailyRemaining())

	// A lowered limit can leave spent above the cap; remaining clamps at zero
	balance.DailyLimit = 10
	assert.Equal(t, int64(0), balance.DailyRemaining())
}

func TestBalance_NextResetAt(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	mockTime := fixedTimeProvider(fixedTime)

	balance, err := NewBalance("user-1", 1000, 15, mockTime)
	require.NoError(t, err)

	next := balance.NextResetAt(fixedTime)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), next)
}
