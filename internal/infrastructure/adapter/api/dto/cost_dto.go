package dto

// CostParams carries the variable-cost inputs for an operation
type CostParams struct {
	Engine          string  `json:"engine"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// EstimateRequest prices an operation without charging anyone
type EstimateRequest struct {
	Operation string      `json:"operation" binding:"required"`
	Params    *CostParams `json:"params"`
}

// EstimateResponse is the computed token cost for an operation
type EstimateResponse struct {
	Operation string `json:"operation"`
	Cost      int64  `json:"cost"`
}

// CostCatalogEntry describes one priced operation in the catalog
type CostCatalogEntry struct {
	Operation   string `json:"operation"`
	BaseTokens  int64  `json:"baseTokens"`
	Variable    bool   `json:"variable"`
	Description string `json:"description"`
}

// CostCatalogResponse lists every priced operation
type CostCatalogResponse struct {
	Costs []CostCatalogEntry `json:"costs"`
}
