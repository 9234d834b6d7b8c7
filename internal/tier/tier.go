package tier

import "rename_gateway/internal/models"

// stageAOverrideModel is occasionally shown to basic-plan users for
// first-pass structuring. This is a product rule carried over as-is;
// it is a policy decision, not something to normalize away.
const stageAOverrideModel = "gpt-4o"

// tiers is the static plan table. Defined once at process start and
// never mutated.
var tiers = map[models.PlanName]models.TierConfig{
	models.PlanFree: {
		Tier: models.PlanTierFree,
		Plan: models.PlanFree,
		Models: models.ModelChain{
			Primary:    "gpt-4o-mini",
			Secondary:  "gemini-1.5-flash",
			Tertiary:   "gpt-3.5-turbo",
			Quaternary: "gemini-1.5-flash-8b",
		},
		OCR:        models.OCRChain{Primary: "ocrspace"},
		OCRQuality: models.OCRQualityLow,
		Limits:     models.UsageLimits{MaxFolders: 3, MaxFiles: 50, MaxFileSizeMB: 5},
	},
	models.PlanBasic: {
		Tier: models.PlanTierMedium,
		Plan: models.PlanBasic,
		Models: models.ModelChain{
			Primary:    "gpt-4o-mini",
			Secondary:  "gemini-1.5-flash",
			Tertiary:   "claude-3-haiku-20240307",
			Quaternary: "gpt-3.5-turbo",
		},
		OCR:        models.OCRChain{Primary: "ocrspace", Secondary: "gemini"},
		OCRQuality: models.OCRQualityMedium,
		Limits:     models.UsageLimits{MaxFolders: 25, MaxFiles: 500, MaxFileSizeMB: 25},
	},
	models.PlanPro: {
		Tier: models.PlanTierPremium,
		Plan: models.PlanPro,
		Models: models.ModelChain{
			Primary:    "gpt-4o",
			Secondary:  "gemini-1.5-pro",
			Tertiary:   "gpt-4o-mini",
			Quaternary: "claude-3-5-sonnet-20241022",
		},
		OCR:        models.OCRChain{Primary: "gemini", Secondary: "openai", Tertiary: "ocrspace"},
		OCRQuality: models.OCRQualityHigh,
		Limits:     models.UsageLimits{MaxFolders: 100, MaxFiles: 5000, MaxFileSizeMB: 100},
	},
	models.PlanUnlimited: {
		Tier: models.PlanTierPremium,
		Plan: models.PlanUnlimited,
		Models: models.ModelChain{
			Primary:    "gpt-4o",
			Secondary:  "claude-3-5-sonnet-20241022",
			Tertiary:   "gemini-1.5-pro",
			Quaternary: "gpt-4o-mini",
		},
		OCR:        models.OCRChain{Primary: "openai", Secondary: "gemini", Tertiary: "ocrspace"},
		OCRQuality: models.OCRQualityHigh,
		Limits:     models.UsageLimits{MaxFolders: -1, MaxFiles: -1, MaxFileSizeMB: -1},
	},
}

// Resolve maps a plan identifier to its tier configuration. It is a
// total function: unknown or empty identifiers resolve to the free
// tier as a safety net rather than failing.
func Resolve(plan string) models.TierConfig {
	if cfg, ok := tiers[models.PlanName(plan)]; ok {
		return cfg
	}
	return tiers[models.PlanFree]
}

// ModelChain returns the ordered model candidates for a stage.
//
// The default stage deliberately tries the secondary model first,
// reserving the primary (usually the most capable and expensive) for
// stage-"a" structural requests. The basic plan additionally gets a
// fixed top-of-line model ahead of its own chain for stage "a".
func ModelChain(cfg models.TierConfig, stage models.Stage) []string {
	m := cfg.Models
	if stage != models.StageStructure {
		return []string{m.Secondary, m.Primary, m.Tertiary, m.Quaternary}
	}
	if cfg.Plan == models.PlanBasic {
		return []string{stageAOverrideModel, m.Primary, m.Secondary, m.Tertiary}
	}
	return []string{m.Primary, m.Secondary, m.Tertiary, m.Quaternary}
}

// OCRChain returns the ordered remote OCR vendors for a tier, with
// unused slots dropped.
func OCRChain(cfg models.TierConfig) []string {
	chain := make([]string, 0, 3)
	for _, v := range []string{cfg.OCR.Primary, cfg.OCR.Secondary, cfg.OCR.Tertiary} {
		if v != "" {
			chain = append(chain, v)
		}
	}
	return chain
}

// SpeedTier maps a plan to its generation speed class.
func SpeedTier(plan models.PlanName) models.SpeedTier {
	switch plan {
	case models.PlanPro:
		return models.SpeedFast
	case models.PlanUnlimited:
		return models.SpeedInstant
	default:
		return models.SpeedStandard
	}
}

// DefaultMaxTokens is the output budget applied when the caller did
// not specify one. Paying tiers get longer generations without every
// call site hardcoding a number.
func DefaultMaxTokens(speed models.SpeedTier) int {
	switch speed {
	case models.SpeedFast:
		return 2048
	case models.SpeedInstant:
		return 4096
	default:
		return 1024
	}
}
