package dto

// ErrorResponse represents a standardized error response for the API.
// Context fields carry the figures clients need to render a useful message
// and are omitted when they don't apply to the error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Populated for INSUFFICIENT_TOKENS
	Required *int64 `json:"required,omitempty"`
	Current  *int64 `json:"current,omitempty"`
	// Populated for DAILY_LIMIT_EXCEEDED
	DailyLimit *int64 `json:"dailyLimit,omitempty"`
	DailySpent *int64 `json:"dailySpent,omitempty"`
}
