package handler

import (
	"net/http"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// CostHandler serves the operation pricing endpoints. Pricing is pure
// lookup, so this handler doesn't touch the database.
type CostHandler struct {
	logger coreport.Logger
}

// NewCostHandler creates a new cost handler instance
func NewCostHandler(logger coreport.Logger) *CostHandler {
	return &CostHandler{logger: logger}
}

// GetCatalog handles the GET /costs endpoint
func (h *CostHandler) GetCatalog(c *gin.Context) {
	catalog := entity.CostCatalog()

	entries := make([]dto.CostCatalogEntry, 0, len(catalog))
	for _, entry := range catalog {
		entries = append(entries, dto.CostCatalogEntry{
			Operation:   string(entry.Operation),
			BaseTokens:  entry.BaseTokens,
			Variable:    entry.Variable,
			Description: entry.Description,
		})
	}

	c.JSON(http.StatusOK, dto.CostCatalogResponse{Costs: entries})
}

// Estimate handles the POST /costs/estimate endpoint
func (h *CostHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidOperation,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	var params *entity.CostParams
	if req.Params != nil {
		params = &entity.CostParams{
			Engine:          req.Params.Engine,
			DurationSeconds: req.Params.DurationSeconds,
		}
	}

	cost, err := entity.CalculateCost(entity.Operation(req.Operation), params)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.EstimateResponse{
		Operation: req.Operation,
		Cost:      cost,
	})
}
