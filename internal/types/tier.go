package types

import "strings"

// Tier is a subscription level. Tiers form a total order: Free < Plus < Pro.
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

func ParseTier(value string) (Tier, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case string(TierFree):
		return TierFree, true
	case string(TierPlus):
		return TierPlus, true
	case string(TierPro):
		return TierPro, true
	default:
		return Tier(""), false
	}
}

func (t Tier) rank() int {
	switch t {
	case TierPlus:
		return 1
	case TierPro:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether t satisfies a requirement of level other.
// The comparison is non-strict: a Pro user passes every check.
func (t Tier) AtLeast(other Tier) bool {
	return t.rank() >= other.rank()
}

func (t Tier) DisplayName() string {
	switch t {
	case TierPlus:
		return "Plus"
	case TierPro:
		return "Pro"
	default:
		return "Free"
	}
}

// RequiredTier returns the minimum tier that may open the view. Unknown
// views require no entitlement so navigation failures stay navigation
// failures instead of billing prompts.
func RequiredTier(v View) Tier {
	switch v {
	case ViewPatterns, ViewDocuments, ViewDraftedDocuments, ViewMessaging, ViewAssistant:
		return TierPlus
	case ViewInsights:
		return TierPro
	default:
		return TierFree
	}
}
