package models

// PlanTier is the coarse tier bucket a plan belongs to.
type PlanTier string

const (
	PlanTierFree    PlanTier = "free"
	PlanTierMedium  PlanTier = "medium"
	PlanTierPremium PlanTier = "premium"
)

// PlanName enumerates the fine-grained subscription plans.
type PlanName string

const (
	PlanFree      PlanName = "free"
	PlanBasic     PlanName = "basic"
	PlanPro       PlanName = "pro"
	PlanUnlimited PlanName = "unlimited"
)

// OCRQuality selects how much effort remote OCR vendors should spend.
type OCRQuality string

const (
	OCRQualityLow    OCRQuality = "low"
	OCRQualityMedium OCRQuality = "medium"
	OCRQualityHigh   OCRQuality = "high"
)

// SpeedTier drives default generation sizing per plan.
type SpeedTier string

const (
	SpeedStandard SpeedTier = "standard"
	SpeedFast     SpeedTier = "fast"
	SpeedInstant  SpeedTier = "instant"
)

// ModelChain is the ordered list of model identifiers a tier may use,
// from primary (most capable) to quaternary (cheapest).
type ModelChain struct {
	Primary    string
	Secondary  string
	Tertiary   string
	Quaternary string
}

// OCRChain is the ordered list of remote OCR vendors for a tier.
// Any entry may be empty, meaning the slot is unused.
type OCRChain struct {
	Primary   string
	Secondary string
	Tertiary  string
}

// UsageLimits holds per-plan resource caps. -1 means unlimited.
type UsageLimits struct {
	MaxFolders    int
	MaxFiles      int
	MaxFileSizeMB int
}

// TierConfig is the immutable routing configuration for one plan.
// Instances are defined statically at process start and never mutated.
type TierConfig struct {
	Tier       PlanTier
	Plan       PlanName
	Models     ModelChain
	OCR        OCRChain
	OCRQuality OCRQuality
	Limits     UsageLimits
}
