package entity

import (
	"testing"

	errs "github.com/dropfly/token-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCost_FixedOperations(t *testing.T) {
	tests := []struct {
		operation Operation
		expected  int64
	}{
		{OpVideoDownload, 5},
		{OpVideoEditing, 10},
		{OpScriptGeneration, 7},
		{OpImageGeneration, 5},
		{OpScriptEnhancement, 5},
		{OpContentAnalysis, 8},
		{OpSocialPost, 2},
		{OpSocialPostMultiPlatform, 5},
		{OpPostScheduling, 1},
		{OpCampaignCreation, 20},
		{OpAnalyticsReport, 15},
		{OpCompetitorAnalysis, 25},
		{OpTrendResearch, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.operation), func(t *testing.T) {
			cost, err := CalculateCost(tt.operation, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cost)
		})
	}
}

func TestCalculateCost_VideoGeneration(t *testing.T) {
	t.Run("Known engine scales with duration", func(t *testing.T) {
		// hailuo-02 at $0.028/s for 6s: ceil(0.168*100)=17, ceil(17*1.70)=29
		cost, err := CalculateCost(OpVideoGeneration, &CostParams{
			Engine:          "hailuo-02",
			DurationSeconds: 6,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(29), cost)
	})

	t.Run("Premium engine costs more", func(t *testing.T) {
		// kling-2.1 at $0.19/s for 10s: ceil(1.9*100)=190, ceil(190*1.70)=323
		cost, err := CalculateCost(OpVideoGeneration, &CostParams{
			Engine:          "kling-2.1",
			DurationSeconds: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(323), cost)
	})

	t.Run("Unknown engine uses the default price", func(t *testing.T) {
		// default $0.05/s for 10s: ceil(0.5*100)=50, ceil(50*1.70)=85
		cost, err := CalculateCost(OpVideoGeneration, &CostParams{
			Engine:          "some-new-engine",
			DurationSeconds: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(85), cost)
	})

	t.Run("Missing params fall back to the flat default", func(t *testing.T) {
		cost, err := CalculateCost(OpVideoGeneration, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(100), cost)
	})

	t.Run("Non-positive duration falls back to the flat default", func(t *testing.T) {
		cost, err := CalculateCost(OpVideoGeneration, &CostParams{
			Engine:          "hailuo-02",
			DurationSeconds: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(100), cost)
	})
}

func TestCalculateCost_UnknownOperation(t *testing.T) {
	cost, err := CalculateCost(Operation("time_travel"), nil)

	assert.ErrorIs(t, err, errs.ErrInvalidOperation)
	assert.Equal(t, int64(0), cost)
}

func TestCostCatalog(t *testing.T) {
	catalog := CostCatalog()

	require.Len(t, catalog, 14)

	// Video generation leads the catalog and is the only variable entry
	assert.Equal(t, OpVideoGeneration, catalog[0].Operation)
	assert.True(t, catalog[0].Variable)

	for _, entry := range catalog[1:] {
		assert.False(t, entry.Variable)
		assert.Positive(t, entry.BaseTokens)
		assert.NotEmpty(t, entry.Description)
	}
}

func TestAllocationForTier(t *testing.T) {
	tests := []struct {
		tier          string
		monthlyTokens int64
		dailyLimit    int64
	}{
		{"free", 300, 15},
		{"starter", 2000, 100},
		{"pro", 6000, 300},
		{"enterprise", 20000, 1000},
		{"unknown-tier", 300, 15}, // falls back to free
		{"", 300, 15},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			allocation := AllocationForTier(tt.tier)
			assert.Equal(t, tt.monthlyTokens, allocation.MonthlyTokens)
			assert.Equal(t, tt.dailyLimit, allocation.DailyLimit)
		})
	}
}

func TestPackageByID(t *testing.T) {
	t.Run("Known package includes bonus in total", func(t *testing.T) {
		pkg, err := PackageByID("popular")
		require.NoError(t, err)

		assert.Equal(t, int64(1500), pkg.Tokens)
		assert.Equal(t, int64(300), pkg.Bonus)
		assert.Equal(t, int64(1800), pkg.TotalTokens())
	})

	t.Run("Unknown package", func(t *testing.T) {
		_, err := PackageByID("mega")
		assert.ErrorIs(t, err, errs.ErrInvalidOperation)
	})
}
