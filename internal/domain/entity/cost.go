package entity

import (
	"fmt"
	"math"

	errs "github.com/dropfly/token-ledger/internal/domain/error"
)

// CostParams carries the inputs for variable-cost operations
type CostParams struct {
	Engine          string  // video engine identifier
	DurationSeconds float64 // requested clip length
}

// videoEnginePricePerSecond maps a generation engine to its upstream dollar
// price per second of output. Unknown engines fall back to a mid-range price.
var videoEnginePricePerSecond = map[string]float64{
	"hailuo-02":         0.028,
	"runway-gen4-turbo": 0.05,
	"kling-2.1":         0.19,
	"luma-ray3":         0.12,
	"pika-2.2":          0.08,
	"cogvideox-5b":      0.02,
	"cogvideox-i2v":     0.025,
}

const (
	defaultEnginePricePerSecond = 0.05
	defaultVideoTokens          = 100

	// 1 token = $0.01, sold with a 70% markup over upstream cost
	tokensPerDollar      = 100
	profitMarginMultiple = 1.70
)

// baseCosts is the static price list for fixed-cost operations
var baseCosts = map[Operation]int64{
	OpVideoDownload:           5,
	OpVideoEditing:            10,
	OpScriptGeneration:        7,
	OpImageGeneration:         5,
	OpScriptEnhancement:       5,
	OpContentAnalysis:         8,
	OpSocialPost:              2,
	OpSocialPostMultiPlatform: 5,
	OpPostScheduling:          1,
	OpCampaignCreation:        20,
	OpAnalyticsReport:         15,
	OpCompetitorAnalysis:      25,
	OpTrendResearch:           12,
}

// CalculateCost returns the token price of an operation. Pure function: no
// side effects, no I/O. Video generation is priced per engine and duration;
// every other operation has a fixed base cost.
func CalculateCost(operation Operation, params *CostParams) (int64, error) {
	if operation == OpVideoGeneration {
		return videoGenerationCost(params), nil
	}

	cost, ok := baseCosts[operation]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidOperation, operation)
	}
	return cost, nil
}

// videoGenerationCost converts the engine's dollar price into tokens and
// applies the markup. Missing params fall back to a flat default so that a
// misconfigured caller is charged rather than served for free.
func videoGenerationCost(params *CostParams) int64 {
	if params == nil || params.DurationSeconds <= 0 {
		return defaultVideoTokens
	}

	pricePerSecond, ok := videoEnginePricePerSecond[params.Engine]
	if !ok {
		pricePerSecond = defaultEnginePricePerSecond
	}

	dollarCost := pricePerSecond * params.DurationSeconds
	tokens := math.Ceil(dollarCost * tokensPerDollar)
	return int64(math.Ceil(tokens * profitMarginMultiple))
}

// CostEntry describes one row of the public cost catalog
type CostEntry struct {
	Operation   Operation `json:"operation"`
	BaseTokens  int64     `json:"baseTokens"`
	Variable    bool      `json:"variable"`
	Description string    `json:"description"`
}

// costDescriptions backs the catalog endpoint
var costDescriptions = map[Operation]string{
	OpVideoGeneration:         "AI video generation, priced per engine and duration",
	OpVideoDownload:           "Download video from social platform",
	OpVideoEditing:            "Basic video editing operations",
	OpScriptGeneration:        "AI script generation",
	OpImageGeneration:         "AI image generation (per image)",
	OpScriptEnhancement:       "Enhance existing script with AI",
	OpContentAnalysis:         "Analyze content performance",
	OpSocialPost:              "Post to single platform",
	OpSocialPostMultiPlatform: "Post to multiple platforms",
	OpPostScheduling:          "Schedule a post",
	OpCampaignCreation:        "Create multi-post campaign",
	OpAnalyticsReport:         "Generate analytics report",
	OpCompetitorAnalysis:      "Analyze competitor content",
	OpTrendResearch:           "Research trending topics",
}

// CostCatalog returns the full price list in a stable order
func CostCatalog() []CostEntry {
	catalog := []CostEntry{{
		Operation:   OpVideoGeneration,
		BaseTokens:  0,
		Variable:    true,
		Description: costDescriptions[OpVideoGeneration],
	}}

	ordered := []Operation{
		OpVideoDownload, OpVideoEditing, OpScriptGeneration, OpImageGeneration,
		OpScriptEnhancement, OpContentAnalysis, OpSocialPost,
		OpSocialPostMultiPlatform, OpPostScheduling, OpCampaignCreation,
		OpAnalyticsReport, OpCompetitorAnalysis, OpTrendResearch,
	}
	for _, op := range ordered {
		catalog = append(catalog, CostEntry{
			Operation:   op,
			BaseTokens:  baseCosts[op],
			Description: costDescriptions[op],
		})
	}
	return catalog
}

// TierAllocation holds the token grant and daily cap for a subscription tier
type TierAllocation struct {
	Tier          string
	MonthlyTokens int64
	DailyLimit    int64
}

var tierAllocations = map[string]TierAllocation{
	"free":       {Tier: "free", MonthlyTokens: 300, DailyLimit: 15},
	"starter":    {Tier: "starter", MonthlyTokens: 2000, DailyLimit: 100},
	"pro":        {Tier: "pro", MonthlyTokens: 6000, DailyLimit: 300},
	"enterprise": {Tier: "enterprise", MonthlyTokens: 20000, DailyLimit: 1000},
}

// AllocationForTier returns the allocation for a subscription tier,
// defaulting to the free tier for unknown values
func AllocationForTier(tier string) TierAllocation {
	if allocation, ok := tierAllocations[tier]; ok {
		return allocation
	}
	return tierAllocations["free"]
}

// TokenPackage is a purchasable token bundle
type TokenPackage struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tokens int64  `json:"tokens"`
	Bonus  int64  `json:"bonus"`
	Price  int64  `json:"price"` // dollars
}

var tokenPackages = map[string]TokenPackage{
	"starter":  {ID: "starter", Name: "Starter Pack", Tokens: 500, Bonus: 50, Price: 9},
	"popular":  {ID: "popular", Name: "Popular Pack", Tokens: 1500, Bonus: 300, Price: 24},
	"pro":      {ID: "pro", Name: "Pro Pack", Tokens: 3000, Bonus: 750, Price: 45},
	"ultimate": {ID: "ultimate", Name: "Ultimate Pack", Tokens: 10000, Bonus: 3000, Price: 129},
}

// PackageByID looks up a purchasable token package
func PackageByID(id string) (TokenPackage, error) {
	pkg, ok := tokenPackages[id]
	if !ok {
		return TokenPackage{}, fmt.Errorf("%w: unknown package %s", errs.ErrInvalidOperation, id)
	}
	return pkg, nil
}

// TotalTokens returns the credited amount including the bonus
func (p TokenPackage) TotalTokens() int64 {
	return p.Tokens + p.Bonus
}
