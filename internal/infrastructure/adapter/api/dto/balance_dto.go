package dto

import "time"

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID         string `json:"userId"`
	Balance        int64  `json:"balance"`
	LifetimeEarned int64  `json:"lifetimeEarned"`
	LifetimeSpent  int64  `json:"lifetimeSpent"`
	DailySpent     int64  `json:"dailySpent"`
	DailyLimit     int64  `json:"dailyLimit"`
}

// DailyLimitResponse describes today's quota usage
type DailyLimitResponse struct {
	UserID         string    `json:"userId"`
	DailySpent     int64     `json:"dailySpent"`
	DailyLimit     int64     `json:"dailyLimit"`
	DailyRemaining int64     `json:"dailyRemaining"`
	PercentageUsed int       `json:"percentageUsed"`
	ResetsAt       time.Time `json:"resetsAt"`
}

// ProvisionRequest creates a balance for a new account. An empty tier falls
// back to the configured default.
type ProvisionRequest struct {
	Tier string `json:"tier" binding:"omitempty,oneof=free starter pro enterprise"`
}

// ProvisionResponse confirms account provisioning
type ProvisionResponse struct {
	UserID     string `json:"userId"`
	Tier       string `json:"tier"`
	Balance    int64  `json:"balance"`
	DailyLimit int64  `json:"dailyLimit"`
}
