package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRepository implements persistence.BalanceRepository using GORM
type BalanceRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBalanceRepository creates a new BalanceRepository instance
func NewBalanceRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *BalanceRepository {
	return &BalanceRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a balance model to an entity
func modelToEntity(balanceModel *model.Balance) *entity.Balance {
	return &entity.Balance{
		UserID:         balanceModel.UserID,
		Balance:        balanceModel.Balance,
		LifetimeEarned: balanceModel.LifetimeEarned,
		LifetimeSpent:  balanceModel.LifetimeSpent,
		DailySpent:     balanceModel.DailySpent,
		DailyLimit:     balanceModel.DailyLimit,
		LastResetDate:  entity.DayUTC(balanceModel.LastResetDate),
		CreatedAt:      balanceModel.CreatedAt,
		UpdatedAt:      balanceModel.UpdatedAt,
	}
}

// entityToModel converts a balance entity to a database model
func entityToModel(balance *entity.Balance) model.Balance {
	return model.Balance{
		UserID:         balance.UserID,
		Balance:        balance.Balance,
		LifetimeEarned: balance.LifetimeEarned,
		LifetimeSpent:  balance.LifetimeSpent,
		DailySpent:     balance.DailySpent,
		DailyLimit:     balance.DailyLimit,
		LastResetDate:  balance.LastResetDate,
		CreatedAt:      balance.CreatedAt,
		UpdatedAt:      balance.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *BalanceRepository) handleDatabaseError(operation string, err error, userID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Token balance not found", map[string]any{
			"user_id": userID,
		})
		return errs.ErrUserNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDuplicateBalance
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByUserID retrieves a balance record by user id
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID string) (*entity.Balance, error) {
	var balanceModel model.Balance
	result := r.db.WithContext(ctx).First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting balance", result.Error, userID)
	}

	return modelToEntity(&balanceModel), nil
}

// GetForUpdate retrieves a balance record under an exclusive row lock. The
// lock serializes every balance mutation for the user: two concurrent
// deducts cannot both read the pre-deduction balance and both commit.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	var balanceModel model.Balance
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking balance", result.Error, userID)
	}

	r.logger.Debug("Balance row locked for update", map[string]any{
		"user_id": userID,
		"balance": balanceModel.Balance,
	})

	return modelToEntity(&balanceModel), nil
}

// Create provisions a balance record for a new account
func (r *BalanceRepository) Create(ctx context.Context, balance *entity.Balance) error {
	balanceModel := entityToModel(balance)

	result := r.db.WithContext(ctx).Create(&balanceModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating balance", result.Error, balance.UserID)
	}

	r.logger.Info("Token balance created", map[string]any{
		"user_id":     balance.UserID,
		"balance":     balance.Balance,
		"daily_limit": balance.DailyLimit,
	})
	return nil
}

// Update persists a mutated balance record
func (r *BalanceRepository) Update(ctx context.Context, balance *entity.Balance) error {
	result := r.db.WithContext(ctx).Model(&model.Balance{}).
		Where("user_id = ?", balance.UserID).
		Updates(map[string]interface{}{
			"balance":         balance.Balance,
			"lifetime_earned": balance.LifetimeEarned,
			"lifetime_spent":  balance.LifetimeSpent,
			"daily_spent":     balance.DailySpent,
			"daily_limit":     balance.DailyLimit,
			"last_reset_date": balance.LastResetDate,
			"updated_at":      balance.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating balance", result.Error, balance.UserID)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Balance not found during update", map[string]any{
			"user_id": balance.UserID,
		})
		return errs.ErrUserNotFound
	}

	return nil
}
