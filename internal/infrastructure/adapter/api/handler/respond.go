package handler

import (
	"net/http"

	errs "github.com/dropfly/token-ledger/internal/domain/error"
	"github.com/dropfly/token-ledger/internal/domain/usecase/ledger"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// statusForCode maps ledger error codes to HTTP status codes
func statusForCode(code string) int {
	switch code {
	case errs.CodeUserNotFound:
		return http.StatusNotFound
	case errs.CodeInsufficientTokens, errs.CodeDailyLimitExceeded:
		return http.StatusForbidden
	case errs.CodeDuplicateRefund:
		return http.StatusConflict
	case errs.CodeInvalidOperation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeFailure renders a failed operation result as an error body, attaching
// the figures clients need for INSUFFICIENT_TOKENS and DAILY_LIMIT_EXCEEDED
func writeFailure(c *gin.Context, result *ledger.OperationResult) {
	response := dto.ErrorResponse{
		Code:    result.ErrorCode,
		Message: result.Error,
	}

	switch result.ErrorCode {
	case errs.CodeInsufficientTokens:
		required := result.Required
		current := result.Available
		response.Required = &required
		response.Current = &current
	case errs.CodeDailyLimitExceeded:
		limit := result.DailyLimit
		spent := result.DailySpent
		response.DailyLimit = &limit
		response.DailySpent = &spent
	}

	c.JSON(statusForCode(result.ErrorCode), response)
}

// writeInternalError renders an infrastructure failure as a plain 500
func writeInternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Code:    errs.CodeInternalError,
		Message: "Internal server error",
	})
}
