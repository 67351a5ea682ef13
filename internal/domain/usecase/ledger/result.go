package ledger

import (
	"errors"
	"time"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
)

// OperationResult is the tagged outcome of a ledger mutation. Domain
// failures (insufficient tokens, daily cap, unknown user) are carried here as
// values; only infrastructure failures surface as Go errors.
type OperationResult struct {
	Success     bool
	NewBalance  int64
	Transaction *entity.Transaction
	ErrorCode   string
	Error       string
	// Figures for user-facing failure messages
	Required   int64
	Available  int64
	DailySpent int64
	DailyLimit int64
}

// succeeded builds a success result
func succeeded(newBalance int64, txn *entity.Transaction) *OperationResult {
	return &OperationResult{
		Success:     true,
		NewBalance:  newBalance,
		Transaction: txn,
	}
}

// failed builds a failure result from a domain error
func failed(err error) *OperationResult {
	result := &OperationResult{
		Success:   false,
		ErrorCode: errs.ErrorCode(err),
		Error:     err.Error(),
	}

	var insufficient *errs.InsufficientTokensError
	if errors.As(err, &insufficient) {
		result.Required = insufficient.Required
		result.Available = insufficient.Available
	}

	var daily *errs.DailyLimitExceededError
	if errors.As(err, &daily) {
		result.DailySpent = daily.DailySpent
		result.DailyLimit = daily.DailyLimit
		result.Required = daily.Cost
	}

	return result
}

// DailyLimitInfo describes today's quota usage for client display
type DailyLimitInfo struct {
	DailySpent     int64
	DailyLimit     int64
	DailyRemaining int64
	PercentageUsed int
	ResetsAt       time.Time
}
