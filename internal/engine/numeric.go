// Package engine implements the adaptive recommendation and load-regulation
// engine: readiness scoring, training-balance indices, set classification,
// skill-cost modifiers, session auto-regulation, and the recommendation
// ladder. The package is pure — no I/O, no clocks, no hidden state — so the
// same inputs always produce the same outputs.
package engine

import "math"

const (
	// DefaultBarWeightKg is the standard Olympic bar.
	DefaultBarWeightKg = 20.0
	// DefaultIncrementKg is the smallest practical jump for loading a bar.
	DefaultIncrementKg = 2.5
	// RPEAtFailure assumes no reps in reserve when the lifter logged no RPE.
	RPEAtFailure = 10.0
)

// plateDenominations in kg, descending, for greedy decomposition.
var plateDenominations = []float64{25, 20, 15, 10, 5, 2.5, 1.25}

// Estimated1RM returns the Epley one-rep-max estimate adjusted for reps in
// reserve, rounded to one decimal. RPE below 10 means reps were left in the
// tank, so the set is treated as if it had run to reps+RIR. Callers that omit
// RPE should pass RPEAtFailure, which overstates capacity for submaximal sets.
func Estimated1RM(weight float64, reps int, rpe float64) float64 {
	if weight <= 0 || reps <= 0 {
		return 0
	}
	rir := math.Max(0, RPEAtFailure-rpe)
	potentialReps := float64(reps) + rir
	e1rm := weight * (1 + potentialReps/30)
	return math.Round(e1rm*10) / 10
}

// RoundToIncrement rounds weight to the nearest multiple of increment,
// half up in the positive domain. A non-positive increment falls back to
// DefaultIncrementKg.
func RoundToIncrement(weight, increment float64) float64 {
	if increment <= 0 {
		increment = DefaultIncrementKg
	}
	return math.Floor(weight/increment+0.5) * increment
}

// DecomposePlates greedily decomposes target into per-side plates (or the
// full load when singleSided). The result is non-increasing; an empty slice
// means the bar alone covers the target within the smallest denomination.
func DecomposePlates(target, barWeight float64, singleSided bool) []float64 {
	remaining := math.Max(0, target-barWeight)
	if !singleSided {
		remaining /= 2
	}

	var plates []float64
	for _, denom := range plateDenominations {
		for remaining >= denom {
			plates = append(plates, denom)
			remaining -= denom
		}
	}
	return plates
}
