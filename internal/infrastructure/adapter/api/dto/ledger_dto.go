package dto

import "time"

// DeductRequest charges a user for a paid operation. Cost is optional; when
// omitted it is computed from the operation and params.
type DeductRequest struct {
	Operation   string         `json:"operation" binding:"required"`
	Cost        int64          `json:"cost"`
	Params      *CostParams    `json:"params"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// RefundRequest compensates a failed paid operation. Exactly one of
// transactionId or amount must be set.
type RefundRequest struct {
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
}

// GrantRequest credits tokens to a user. Either amount or packageId must be
// set; packageId implies type purchase.
type GrantRequest struct {
	Type        string         `json:"type" binding:"omitempty,oneof=earn bonus purchase"`
	Operation   string         `json:"operation"`
	Amount      int64          `json:"amount"`
	PackageID   string         `json:"packageId"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// OperationResponse is the common response for balance mutations
type OperationResponse struct {
	Success       bool   `json:"success"`
	UserID        string `json:"userId"`
	NewBalance    int64  `json:"newBalance"`
	TransactionID string `json:"transactionId,omitempty"`
	Cost          int64  `json:"cost,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
}

// TransactionResponse represents a single ledger entry
type TransactionResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	Amount       int64          `json:"amount"`
	Type         string         `json:"type"`
	Operation    string         `json:"operation"`
	Description  string         `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	BalanceAfter int64          `json:"balanceAfter"`
	RefundOf     string         `json:"refundOf,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// TransactionListResponse wraps a page of transaction history
type TransactionListResponse struct {
	UserID       string                `json:"userId"`
	Transactions []TransactionResponse `json:"transactions"`
}
