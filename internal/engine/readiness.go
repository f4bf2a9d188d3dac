package engine

import (
	"math"

	"github.com/claude/ironquest/internal/models"
)

// ReadinessState is the discrete readiness classification.
type ReadinessState string

const (
	StateCompromised ReadinessState = "compromised"
	StateNominal     ReadinessState = "nominal"
	StatePrimed      ReadinessState = "primed"
)

const (
	// neutralBaseline substitutes for any missing wellness field so a sparse
	// snapshot never reads as compromised.
	neutralBaseline = 50.0
	// hrvReferenceMs normalizes HRV readings: 60ms maps to 100.
	hrvReferenceMs = 60.0

	compromisedBatteryFloor = 25.0
	compromisedSleepFloor   = 30.0
	primedScoreFloor        = 80.0

	restedBatteryFloor = 80.0
	restedSleepFloor   = 85.0

	// DefaultFatigueThreshold gates the stricter pre-workout check.
	DefaultFatigueThreshold = 30.0
	// TolerantFatigueThreshold applies when the fatigue-tolerance upgrade is
	// active.
	TolerantFatigueThreshold = 20.0

	preWorkoutSleepFloor = 50.0
)

// Readiness is the normalized readiness evaluation for one snapshot.
type Readiness struct {
	Score  float64        `json:"score"`
	State  ReadinessState `json:"state"`
	Rested bool           `json:"rested"`
}

// EvaluateReadiness converts a wellness snapshot into a 0-100 composite score
// and a discrete state. The compromised check is a hard OR-gate on raw body
// battery and sleep, independent of the composite, so one critically low
// signal cannot be averaged away by the others.
func EvaluateReadiness(s models.WellnessSnapshot) Readiness {
	sleep := orBaseline(s.SleepScore)
	battery := orBaseline(s.BodyBattery)

	hrvNorm := neutralBaseline
	if s.HRVMs != nil {
		hrvNorm = math.Min(100, *s.HRVMs/hrvReferenceMs*100)
	}

	score := sleep*0.4 + battery*0.4 + hrvNorm*0.2

	state := StateNominal
	switch {
	case battery < compromisedBatteryFloor || sleep < compromisedSleepFloor:
		state = StateCompromised
	case score > primedScoreFloor:
		state = StatePrimed
	}

	return Readiness{
		Score:  score,
		State:  state,
		Rested: battery > restedBatteryFloor && sleep > restedSleepFloor,
	}
}

// PreWorkoutCompromised is the stricter fatigue check applied at session
// start. fatigueThreshold is externally configurable: normally
// DefaultFatigueThreshold, reduced to TolerantFatigueThreshold when the
// fatigue-tolerance modifier is active. A non-positive threshold falls back
// to the default.
func PreWorkoutCompromised(s models.WellnessSnapshot, fatigueThreshold float64) bool {
	if fatigueThreshold <= 0 {
		fatigueThreshold = DefaultFatigueThreshold
	}
	return orBaseline(s.BodyBattery) < fatigueThreshold || orBaseline(s.SleepScore) < preWorkoutSleepFloor
}

func orBaseline(v *float64) float64 {
	if v == nil {
		return neutralBaseline
	}
	return *v
}
