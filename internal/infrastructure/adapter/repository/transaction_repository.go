package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// transactionToModel converts a transaction entity to a database model
func (r *TransactionRepository) transactionToModel(transaction *entity.Transaction) (model.Transaction, error) {
	metadata := transaction.Metadata
	if metadata == nil {
		metadata = entity.Metadata{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: failed to marshal transaction metadata: %s", errs.ErrInternalServer, err.Error())
	}

	var refundOf *string
	if transaction.RefundOf != "" {
		id := transaction.RefundOf
		refundOf = &id
	}

	return model.Transaction{
		ID:           transaction.ID,
		UserID:       transaction.UserID,
		Amount:       transaction.Amount,
		Type:         string(transaction.Type),
		Operation:    string(transaction.Operation),
		Description:  transaction.Description,
		Metadata:     string(metadataJSON),
		BalanceAfter: transaction.BalanceAfter,
		RefundOf:     refundOf,
		CreatedAt:    transaction.CreatedAt,
	}, nil
}

// transactionToEntity converts a transaction model to an entity
func (r *TransactionRepository) transactionToEntity(transactionModel *model.Transaction) *entity.Transaction {
	metadata := entity.Metadata{}
	if transactionModel.Metadata != "" {
		if err := json.Unmarshal([]byte(transactionModel.Metadata), &metadata); err != nil {
			// Metadata is debugging context only; a corrupt blob must not
			// block reading the transaction itself
			r.logger.Warn("Failed to unmarshal transaction metadata", map[string]any{
				"transaction_id": transactionModel.ID,
				"error":          err.Error(),
			})
		}
	}

	refundOf := ""
	if transactionModel.RefundOf != nil {
		refundOf = *transactionModel.RefundOf
	}

	return &entity.Transaction{
		ID:           transactionModel.ID,
		UserID:       transactionModel.UserID,
		Amount:       transactionModel.Amount,
		Type:         entity.TransactionType(transactionModel.Type),
		Operation:    entity.Operation(transactionModel.Operation),
		Description:  transactionModel.Description,
		Metadata:     metadata,
		BalanceAfter: transactionModel.BalanceAfter,
		RefundOf:     refundOf,
		CreatedAt:    transactionModel.CreatedAt,
	}
}

// Create appends a transaction record
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel, err := r.transactionToModel(transaction)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		// The unique index on refund_of turns a racing double refund into a
		// duplicate key error here
		if transaction.RefundOf != "" && r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate refund rejected by store", map[string]any{
				"transaction_id": transaction.ID,
				"refund_of":      transaction.RefundOf,
			})
			return fmt.Errorf("%w: %s", errs.ErrDuplicateRefund, transaction.RefundOf)
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"transaction_id": transaction.ID,
			"user_id":        transaction.UserID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Debug("Transaction recorded", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           string(transaction.Type),
		"amount":         transaction.Amount,
	})
	return nil
}

// GetByID retrieves a transaction by id, scoped to the given user
func (r *TransactionRepository) GetByID(ctx context.Context, userID, transactionID string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("Transaction not found", map[string]any{
				"transaction_id": transactionID,
				"user_id":        userID,
			})
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"transaction_id": transactionID,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.transactionToEntity(&transactionModel), nil
}

// ListByUserID returns the user's most recent transactions, newest first
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	var transactionModels []model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactionModels)

	if result.Error != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(transactionModels))
	for i := range transactionModels {
		transactions = append(transactions, r.transactionToEntity(&transactionModels[i]))
	}
	return transactions, nil
}

// RefundExists reports whether a refund for the original transaction id has
// already been recorded
func (r *TransactionRepository) RefundExists(ctx context.Context, originalTransactionID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("refund_of = ?", originalTransactionID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Failed to check refund existence", map[string]any{
			"original_transaction_id": originalTransactionID,
			"error":                   result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return count > 0, nil
}
