package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
)

// Metadata carries free-form context attached to a transaction. It is used
// only for refund correlation and debugging, never for balance math.
type Metadata map[string]any

// Transaction is an immutable record of a single balance mutation
type Transaction struct {
	ID           string // uuid, generated at creation
	UserID       string
	Amount       int64 // signed: positive credit, negative debit
	Type         TransactionType
	Operation    Operation
	Description  string
	Metadata     Metadata
	BalanceAfter int64  // balance snapshot immediately after this mutation
	RefundOf     string // id of the refunded spend transaction, empty otherwise
	CreatedAt    time.Time
}

// NewSpendTransaction records a deduction of cost tokens
func NewSpendTransaction(
	userID string,
	operation Operation,
	cost int64,
	description string,
	metadata Metadata,
	balanceAfter int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if cost <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	return &Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Amount:       -cost,
		Type:         TypeSpend,
		Operation:    operation,
		Description:  description,
		Metadata:     metadata,
		BalanceAfter: balanceAfter,
		CreatedAt:    timeProvider.Now(),
	}, nil
}

// NewCreditTransaction records an earn, bonus or purchase credit
func NewCreditTransaction(
	userID string,
	txType TransactionType,
	operation Operation,
	amount int64,
	description string,
	metadata Metadata,
	balanceAfter int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	if !IsValidCreditType(string(txType)) {
		return nil, errs.ErrInvalidTransactionType
	}

	return &Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		Operation:    operation,
		Description:  description,
		Metadata:     metadata,
		BalanceAfter: balanceAfter,
		CreatedAt:    timeProvider.Now(),
	}, nil
}

// NewRefundTransaction reverses a committed spend transaction. The original
// transaction id is carried both in RefundOf (for the duplicate-refund guard)
// and in the metadata (for reconciliation tooling).
func NewRefundTransaction(
	original *Transaction,
	reason string,
	balanceAfter int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if original == nil || original.ID == "" {
		return nil, errs.ErrTransactionNotFound
	}
	if original.Type != TypeSpend {
		return nil, errs.ErrNotRefundable
	}

	amount := original.Amount
	if amount < 0 {
		amount = -amount
	}

	return &Transaction{
		ID:          uuid.NewString(),
		UserID:      original.UserID,
		Amount:      amount,
		Type:        TypeRefund,
		Operation:   OpFailedRefund,
		Description: reason,
		Metadata: Metadata{
			"original_transaction_id": original.ID,
			"original_operation":      string(original.Operation),
		},
		BalanceAfter: balanceAfter,
		RefundOf:     original.ID,
		CreatedAt:    timeProvider.Now(),
	}, nil
}

// NewAmountRefundTransaction records a refund by raw amount, used when the
// caller has no original transaction id. No RefundOf linkage, so it is not
// covered by the duplicate-refund guard.
func NewAmountRefundTransaction(
	userID string,
	amount int64,
	reason string,
	balanceAfter int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	return &Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Amount:       amount,
		Type:         TypeRefund,
		Operation:    OpFailedRefund,
		Description:  reason,
		Metadata:     Metadata{},
		BalanceAfter: balanceAfter,
		CreatedAt:    timeProvider.Now(),
	}, nil
}

// IsCredit reports whether this transaction increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit reports whether this transaction decreased the balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}
