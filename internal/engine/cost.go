package engine

import (
	"math"

	"github.com/claude/ironquest/internal/models"
)

const (
	freshScoreFloor   = 80.0
	fatiguedScoreCeil = 40.0

	freshDiscount    = 0.80 // capitalize while fresh
	fatiguePenalty   = 1.25 // discourage high-CNS load under fatigue
	recoveryDiscount = 0.85 // encourage recovery-compatible work
)

// CostAdjustment is a derived skill cost plus the signed modifier fraction
// for display (-0.20 for a 20% discount, +0.25 for a 25% penalty).
type CostAdjustment struct {
	FinalCost int     `json:"final_cost"`
	Modifier  float64 `json:"modifier"`
}

// AdjustSkillCost applies the readiness-based cost rule table to a skill
// node. At most one rule fires. The final cost is rounded and floored at 1 so
// a cheap node under penalty stays purchasable.
func AdjustSkillCost(node models.SkillNode, readinessScore float64) CostAdjustment {
	multiplier := 1.0

	highCNS := node.Category == models.CategoryStrength || node.Category == models.CategoryEndurance
	switch {
	case readinessScore > freshScoreFloor && highCNS:
		multiplier = freshDiscount
	case readinessScore < fatiguedScoreCeil && highCNS:
		multiplier = fatiguePenalty
	case readinessScore < fatiguedScoreCeil && node.Category == models.CategoryStability:
		multiplier = recoveryDiscount
	}

	final := int(math.Round(float64(node.BaseCost) * multiplier))
	if final < 1 {
		final = 1
	}
	return CostAdjustment{FinalCost: final, Modifier: multiplier - 1}
}
