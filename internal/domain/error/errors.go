package error

import (
	"errors"
	"fmt"
)

// Error codes returned to API callers. These are part of the wire contract:
// clients branch on them to decide between "buy more tokens" and "try
// tomorrow" flows.
const (
	CodeInsufficientTokens = "INSUFFICIENT_TOKENS"
	CodeDailyLimitExceeded = "DAILY_LIMIT_EXCEEDED"
	CodeInvalidOperation   = "INVALID_OPERATION"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeDuplicateRefund    = "DUPLICATE_REFUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Base error types
var (
	// ErrInsufficientTokens is returned when a user's balance cannot cover a deduction
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrDailyLimitExceeded is returned when a deduction would push daily spending over the cap
	ErrDailyLimitExceeded = errors.New("daily token limit exceeded")

	// ErrInvalidOperation is returned for unrecognized operation kinds
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidAmount is returned when a cost or credit amount is not a positive integer
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidUserID is returned when the user id is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidTransactionType is returned when a credit uses a type outside earn/bonus/purchase
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrUserNotFound is returned when no balance record exists for the user
	ErrUserNotFound = errors.New("user token balance not found")

	// ErrTransactionNotFound is returned when the referenced transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotRefundable is returned when a refund references a non-spend transaction
	ErrNotRefundable = errors.New("only spend transactions can be refunded")

	// ErrDuplicateRefund is returned when the original transaction was already refunded
	ErrDuplicateRefund = errors.New("transaction has already been refunded")

	// ErrDuplicateBalance is returned when provisioning an account that already has one
	ErrDuplicateBalance = errors.New("token balance already exists for user")

	// ErrDatabaseConnection is returned when the durable store is unreachable.
	// This is the one class of failure that propagates as a Go error instead
	// of a typed result; callers treat it as retryable infrastructure failure.
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns the wire error code for a known ledger error
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientTokens):
		return CodeInsufficientTokens
	case errors.Is(err, ErrDailyLimitExceeded):
		return CodeDailyLimitExceeded
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrDuplicateRefund):
		return CodeDuplicateRefund
	case errors.Is(err, ErrInvalidOperation),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrInvalidTransactionType),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrNotRefundable),
		errors.Is(err, ErrDuplicateBalance):
		return CodeInvalidOperation
	default:
		return CodeInternalError
	}
}

// InsufficientTokensError carries the figures the caller must surface so the
// user can decide whether to purchase more
type InsufficientTokensError struct {
	UserID    string
	Required  int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens for user %s: required %d, available %d",
		e.UserID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientTokens
func (e *InsufficientTokensError) Is(target error) bool {
	return target == ErrInsufficientTokens
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientTokensError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_tokens",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientTokens,
	}
}

// NewInsufficientTokensError creates a detailed insufficient tokens error
func NewInsufficientTokensError(userID string, required, available int64) error {
	return &InsufficientTokensError{
		UserID:    userID,
		Required:  required,
		Available: available,
	}
}

// DailyLimitExceededError carries the cap and today's spending for display
type DailyLimitExceededError struct {
	UserID     string
	Cost       int64
	DailySpent int64
	DailyLimit int64
}

// Error implements the error interface
func (e *DailyLimitExceededError) Error() string {
	return fmt.Sprintf("daily token limit exceeded for user %s: spent %d/%d today, requested %d",
		e.UserID, e.DailySpent, e.DailyLimit, e.Cost)
}

// Is checks if the target error is an ErrDailyLimitExceeded
func (e *DailyLimitExceededError) Is(target error) bool {
	return target == ErrDailyLimitExceeded
}

// LogFields returns a map of fields for structured logging
func (e *DailyLimitExceededError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "daily_limit_exceeded",
		"user_id":     e.UserID,
		"cost":        e.Cost,
		"daily_spent": e.DailySpent,
		"daily_limit": e.DailyLimit,
		"error_code":  CodeDailyLimitExceeded,
	}
}

// NewDailyLimitExceededError creates a detailed daily limit error
func NewDailyLimitExceededError(userID string, cost, dailySpent, dailyLimit int64) error {
	return &DailyLimitExceededError{
		UserID:     userID,
		Cost:       cost,
		DailySpent: dailySpent,
		DailyLimit: dailyLimit,
	}
}

// LedgerError wraps a failure in a ledger mutation with its context
type LedgerError struct {
	UserID    string
	Operation string
	Amount    int64
	Err       error
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger operation %s failed for user %s (amount: %d): %v",
		e.Operation, e.UserID, e.Amount, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "ledger_error",
		"user_id":    e.UserID,
		"operation":  e.Operation,
		"amount":     e.Amount,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// IsInsufficientTokensError checks if the error is an insufficient tokens error
func IsInsufficientTokensError(err error) bool {
	return errors.Is(err, ErrInsufficientTokens)
}

// IsDailyLimitExceededError checks if the error is a daily limit error
func IsDailyLimitExceededError(err error) bool {
	return errors.Is(err, ErrDailyLimitExceeded)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsDuplicateRefundError checks if the error is a duplicate refund error
func IsDuplicateRefundError(err error) bool {
	return errors.Is(err, ErrDuplicateRefund)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTransactionNotFound)
}

// IsInfrastructureError reports whether the error is a persistence-layer
// failure that should surface as HTTP 500 rather than a typed result
func IsInfrastructureError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection) || errors.Is(err, ErrInternalServer)
}
