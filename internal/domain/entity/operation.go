package entity

// Operation identifies which billable feature caused a token movement
type Operation string

// Billable operations
const (
	OpVideoGeneration        Operation = "video_generation"
	OpVideoDownload          Operation = "video_download"
	OpVideoEditing           Operation = "video_editing"
	OpScriptGeneration       Operation = "script_generation"
	OpImageGeneration        Operation = "image_generation"
	OpScriptEnhancement      Operation = "script_enhancement"
	OpContentAnalysis        Operation = "content_analysis"
	OpSocialPost             Operation = "social_post"
	OpSocialPostMultiPlatform Operation = "social_post_multi_platform"
	OpPostScheduling         Operation = "post_scheduling"
	OpCampaignCreation       Operation = "campaign_creation"
	OpAnalyticsReport        Operation = "analytics_report"
	OpCompetitorAnalysis     Operation = "competitor_analysis"
	OpTrendResearch          Operation = "trend_research"

	// Non-billable operations used on credit transactions
	OpTokenPurchase Operation = "token_purchase"
	OpSignupBonus   Operation = "signup_bonus"
	OpMonthlyGrant  Operation = "monthly_grant"
	OpFailedRefund  Operation = "failed_operation_refund"
)

// TransactionType classifies a ledger mutation
type TransactionType string

// Transaction types
const (
	TypeEarn     TransactionType = "earn"
	TypeSpend    TransactionType = "spend"
	TypeRefund   TransactionType = "refund"
	TypeBonus    TransactionType = "bonus"
	TypePurchase TransactionType = "purchase"
)

// IsValidOperation reports whether the operation is a known kind
func IsValidOperation(op string) bool {
	switch Operation(op) {
	case OpVideoGeneration, OpVideoDownload, OpVideoEditing,
		OpScriptGeneration, OpImageGeneration, OpScriptEnhancement,
		OpContentAnalysis, OpSocialPost, OpSocialPostMultiPlatform,
		OpPostScheduling, OpCampaignCreation, OpAnalyticsReport,
		OpCompetitorAnalysis, OpTrendResearch,
		OpTokenPurchase, OpSignupBonus, OpMonthlyGrant, OpFailedRefund:
		return true
	}
	return false
}

// IsValidCreditType reports whether the transaction type is allowed on AddTokens
func IsValidCreditType(t string) bool {
	switch TransactionType(t) {
	case TypeEarn, TypeBonus, TypePurchase:
		return true
	}
	return false
}
