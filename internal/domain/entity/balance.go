package entity

import (
	"time"

	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
)

// Balance holds a user's spendable token count together with the audit
// counters and the rolling daily quota state
type Balance struct {
	UserID         string
	Balance        int64 // spendable tokens, never negative after a committed mutation
	LifetimeEarned int64
	LifetimeSpent  int64
	DailySpent     int64
	DailyLimit     int64
	LastResetDate  time.Time // midnight UTC of the last daily-counter reset
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBalance creates a balance record for a freshly provisioned account
func NewBalance(userID string, startingTokens, dailyLimit int64, timeProvider coreport.TimeProvider) (*Balance, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if startingTokens < 0 || dailyLimit <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Balance{
		UserID:         userID,
		Balance:        startingTokens,
		LifetimeEarned: startingTokens,
		DailySpent:     0,
		DailyLimit:     dailyLimit,
		LastResetDate:  DayUTC(now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// DayUTC truncates t to midnight UTC, the granularity of the daily quota
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NeedsDailyReset reports whether the calendar date has advanced past the
// last recorded reset
func (b *Balance) NeedsDailyReset(now time.Time) bool {
	return DayUTC(now).After(b.LastResetDate)
}

// ResetDaily zeroes the daily counter and records the reset date.
// Must be applied before any cap evaluation on a new day.
func (b *Balance) ResetDaily(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	b.DailySpent = 0
	b.LastResetDate = DayUTC(now)
	b.UpdatedAt = now
}

// WithinDailyLimit reports whether a deduction of cost fits under the cap
func (b *Balance) WithinDailyLimit(cost int64) bool {
	return b.DailySpent+cost <= b.DailyLimit
}

// CanSpend reports whether the spendable balance covers cost
func (b *Balance) CanSpend(cost int64) bool {
	return b.Balance >= cost
}

// ApplySpend commits a deduction. The caller must have verified the cap and
// the balance first; this is the only path that increases DailySpent.
func (b *Balance) ApplySpend(cost int64, timeProvider coreport.TimeProvider) error {
	if cost <= 0 {
		return errs.ErrInvalidAmount
	}
	if b.Balance < cost {
		return errs.ErrInsufficientTokens
	}
	b.Balance -= cost
	b.DailySpent += cost
	b.LifetimeSpent += cost
	b.UpdatedAt = timeProvider.Now()
	return nil
}

// ApplyCredit adds tokens to the balance. Credits never touch DailySpent, so
// a refund cannot be used to reclaim daily quota.
func (b *Balance) ApplyCredit(amount int64, timeProvider coreport.TimeProvider) error {
	if amount <= 0 {
		return errs.ErrInvalidAmount
	}
	b.Balance += amount
	b.LifetimeEarned += amount
	b.UpdatedAt = timeProvider.Now()
	return nil
}

// DailyRemaining returns the quota still spendable today
func (b *Balance) DailyRemaining() int64 {
	remaining := b.DailyLimit - b.DailySpent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextResetAt returns the instant the daily quota next resets (midnight UTC)
func (b *Balance) NextResetAt(now time.Time) time.Time {
	return DayUTC(now).Add(24 * time.Hour)
}
