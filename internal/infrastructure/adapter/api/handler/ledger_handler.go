package handler

import (
	"net/http"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/domain/usecase/ledger"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles balance mutation HTTP requests
type LedgerHandler struct {
	ledgerService *ledger.Service
	logger        coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledgerService *ledger.Service, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Deduct handles the POST /user/{userId}/deduct endpoint
func (h *LedgerHandler) Deduct(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid deduct request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidOperation,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	operation := entity.Operation(req.Operation)

	// Price the operation server side unless the caller supplied an explicit
	// cost override
	cost := req.Cost
	if cost <= 0 {
		var params *entity.CostParams
		if req.Params != nil {
			params = &entity.CostParams{
				Engine:          req.Params.Engine,
				DurationSeconds: req.Params.DurationSeconds,
			}
		}
		computed, err := entity.CalculateCost(operation, params)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    errs.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}
		cost = computed
	}

	metadata := entity.Metadata(req.Metadata)
	result, err := h.ledgerService.Deduct(c.Request.Context(), userID, operation, cost, req.Description, metadata)
	if err != nil {
		h.logger.Error("Deduct failed", map[string]any{
			"user_id":   userID,
			"operation": req.Operation,
			"error":     err.Error(),
		})
		writeInternalError(c)
		return
	}
	if !result.Success {
		writeFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, dto.OperationResponse{
		Success:       true,
		UserID:        userID,
		NewBalance:    result.NewBalance,
		TransactionID: result.Transaction.ID,
		Cost:          cost,
	})
}

// Refund handles the POST /user/{userId}/refund endpoint
func (h *LedgerHandler) Refund(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid refund request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidOperation,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if req.TransactionID == "" && req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidOperation,
			Message: "Either transactionId or a positive amount is required",
		})
		return
	}

	var result *ledger.OperationResult
	var err error
	if req.TransactionID != "" {
		result, err = h.ledgerService.Refund(c.Request.Context(), userID, req.TransactionID, req.Reason)
	} else {
		result, err = h.ledgerService.RefundAmount(c.Request.Context(), userID, req.Amount, req.Reason)
	}
	if err != nil {
		h.logger.Error("Refund failed", map[string]any{
			"user_id":        userID,
			"transaction_id": req.TransactionID,
			"error":          err.Error(),
		})
		writeInternalError(c)
		return
	}
	if !result.Success {
		writeFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, dto.OperationResponse{
		Success:       true,
		UserID:        userID,
		NewBalance:    result.NewBalance,
		TransactionID: result.Transaction.ID,
		Amount:        result.Transaction.Amount,
	})
}

// Grant handles the POST /user/{userId}/grant endpoint
func (h *LedgerHandler) Grant(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid grant request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidOperation,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	var result *ledger.OperationResult
	var err error
	if req.PackageID != "" {
		result, err = h.ledgerService.GrantPackage(c.Request.Context(), userID, req.PackageID, req.Description)
	} else {
		if req.Type == "" || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    errs.CodeInvalidOperation,
				Message: "Either packageId or type and a positive amount are required",
			})
			return
		}
		txType := entity.TransactionType(req.Type)
		operation := entity.Operation(req.Operation)
		if req.Operation == "" {
			operation = defaultGrantOperation(txType)
		}
		metadata := entity.Metadata(req.Metadata)
		result, err = h.ledgerService.AddTokens(c.Request.Context(), userID, txType, operation, req.Amount, req.Description, metadata)
	}
	if err != nil {
		h.logger.Error("Grant failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		writeInternalError(c)
		return
	}
	if !result.Success {
		writeFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, dto.OperationResponse{
		Success:       true,
		UserID:        userID,
		NewBalance:    result.NewBalance,
		TransactionID: result.Transaction.ID,
		Amount:        result.Transaction.Amount,
	})
}

// defaultGrantOperation picks the conventional operation label for a credit
// when the caller didn't name one
func defaultGrantOperation(txType entity.TransactionType) entity.Operation {
	switch txType {
	case entity.TypePurchase:
		return entity.OpTokenPurchase
	case entity.TypeBonus:
		return entity.OpSignupBonus
	default:
		return entity.OpMonthlyGrant
	}
}
