package engine

// Rarity is the tiered outcome of a completed set, from worst to best.
type Rarity string

const (
	RarityPoor      Rarity = "poor"
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// SetResult carries a completed set plus the historical context needed for
// classification. GlobalBest is the best-ever e1RM for the exercise and
// SessionBest the best so far this session; zero means "no prior record",
// which disables the PR tiers rather than erroring.
type SetResult struct {
	Weight      float64
	Reps        int
	RPE         float64
	TargetRPE   float64
	GlobalBest  float64
	SessionBest float64
}

// ClassifySet grades a set against PR history. Checks run in strict order and
// the first match wins:
//
//	legendary — beat the all-time e1RM by >=1% at RPE >= 6
//	epic      — beat the session best, or ground it out at RPE >= 9
//	rare      — hit the target RPE within 0.5 at RPE >= 7
//	common    — everything else
//
// Degenerate input (non-positive weight or reps) resolves to common.
func ClassifySet(s SetResult) Rarity {
	if s.Weight <= 0 || s.Reps <= 0 {
		return RarityCommon
	}

	current := Estimated1RM(s.Weight, s.Reps, s.RPE)

	if s.GlobalBest > 0 && current >= s.GlobalBest*1.01 && s.RPE >= 6 {
		return RarityLegendary
	}
	if (s.SessionBest > 0 && current > s.SessionBest) || s.RPE >= 9 {
		return RarityEpic
	}
	if abs(s.RPE-s.TargetRPE) <= 0.5 && s.RPE >= 7 {
		return RarityRare
	}
	return RarityCommon
}

// ClassifyByPercent is the fallback classifier when PR history is not
// available, keyed only on the set's fraction of training max. Fixed-load
// sets (nil weightPct) default to common.
func ClassifyByPercent(weightPct *float64) Rarity {
	if weightPct == nil {
		return RarityCommon
	}
	switch pct := *weightPct; {
	case pct < 0.5:
		return RarityPoor
	case pct < 0.7:
		return RarityCommon
	case pct < 0.85:
		return RarityUncommon
	default:
		return RarityRare
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
