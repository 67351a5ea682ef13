package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/domain/usecase/ledger"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// BalanceHandler handles balance query and provisioning HTTP requests
type BalanceHandler struct {
	ledgerService *ledger.Service
	defaultTier   string
	historyLimit  int
	logger        coreport.Logger
}

// NewBalanceHandler creates a new balance handler instance. defaultTier is
// used when a provisioning request names no tier; historyLimit caps the
// transaction listing when no limit query parameter is given.
func NewBalanceHandler(ledgerService *ledger.Service, defaultTier string, historyLimit int, logger coreport.Logger) *BalanceHandler {
	return &BalanceHandler{
		ledgerService: ledgerService,
		defaultTier:   defaultTier,
		historyLimit:  historyLimit,
		logger:        logger,
	}
}

// GetBalance handles the GET /user/{userId}/balance endpoint
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	userID := c.Param("userId")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Code:    errs.CodeUserNotFound,
				Message: "User not found",
			})
			return
		}
		h.logger.Error("Error getting user balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		writeInternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:         balance.UserID,
		Balance:        balance.Balance,
		LifetimeEarned: balance.LifetimeEarned,
		LifetimeSpent:  balance.LifetimeSpent,
		DailySpent:     balance.DailySpent,
		DailyLimit:     balance.DailyLimit,
	})
}

// GetDailyLimit handles the GET /user/{userId}/limit endpoint
func (h *BalanceHandler) GetDailyLimit(c *gin.Context) {
	userID := c.Param("userId")

	info, err := h.ledgerService.GetDailyLimitInfo(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Code:    errs.CodeUserNotFound,
				Message: "User not found",
			})
			return
		}
		h.logger.Error("Error getting daily limit info", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		writeInternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.DailyLimitResponse{
		UserID:         userID,
		DailySpent:     info.DailySpent,
		DailyLimit:     info.DailyLimit,
		DailyRemaining: info.DailyRemaining,
		PercentageUsed: info.PercentageUsed,
		ResetsAt:       info.ResetsAt,
	})
}

// GetTransactions handles the GET /user/{userId}/transactions endpoint
func (h *BalanceHandler) GetTransactions(c *gin.Context) {
	userID := c.Param("userId")

	limit := h.historyLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    errs.CodeInvalidOperation,
				Message: "Invalid limit parameter",
			})
			return
		}
		limit = parsed
	}

	transactions, err := h.ledgerService.GetTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Error listing transactions", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		writeInternalError(c)
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, transactionToResponse(txn))
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		UserID:       userID,
		Transactions: responses,
	})
}

// Provision handles the POST /user/{userId}/balance endpoint
func (h *BalanceHandler) Provision(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid provision request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidOperation,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	tier := req.Tier
	if tier == "" {
		tier = h.defaultTier
	}

	balance, err := h.ledgerService.CreateBalance(c.Request.Context(), userID, tier)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateBalance) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Code:    errs.CodeInvalidOperation,
				Message: "Token balance already exists for user",
			})
			return
		}
		h.logger.Error("Error provisioning balance", map[string]any{
			"user_id": userID,
			"tier":    tier,
			"error":   err.Error(),
		})
		writeInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, dto.ProvisionResponse{
		UserID:     balance.UserID,
		Tier:       tier,
		Balance:    balance.Balance,
		DailyLimit: balance.DailyLimit,
	})
}

// transactionToResponse converts a transaction entity to its API shape
func transactionToResponse(txn *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           txn.ID,
		UserID:       txn.UserID,
		Amount:       txn.Amount,
		Type:         string(txn.Type),
		Operation:    string(txn.Operation),
		Description:  txn.Description,
		Metadata:     txn.Metadata,
		BalanceAfter: txn.BalanceAfter,
		RefundOf:     txn.RefundOf,
		CreatedAt:    txn.CreatedAt,
	}
}
