package engine

import (
	"math"
	"time"

	"github.com/claude/ironquest/internal/models"
)

const (
	// strengthWindowDays is the moving window for counting high-rarity sets.
	strengthWindowDays = 14
	// pointsPerNotable: each epic/legendary set in the window is worth 12.5
	// points, so 8 notable sets saturate the count component.
	pointsPerNotable = 12.5

	// VO2max normalization band: 30 maps to 0, 60 maps to 100.
	vo2LowRef  = 30.0
	vo2HighRef = 60.0

	// cardioReferenceMinutes is the weekly cardio volume that saturates the
	// activity component (WHO guideline).
	cardioReferenceMinutes = 150.0
)

// TTBInput bundles everything the triad calculator consumes. History must be
// ordered by date ascending. CardioMinutes7d is the rolling 7-day cardio
// volume supplied by the caller.
type TTBInput struct {
	Now             time.Time
	Snapshot        models.WellnessSnapshot
	History         []models.ExerciseLogEntry
	CardioMinutes7d float64
}

// ComputeTTB derives the three 0-100 balance indices and names the weakest.
// Ties break wellness > endurance > strength: wellness safety takes
// precedence over chasing a training dimension.
func ComputeTTB(in TTBInput) models.TTBIndices {
	t := models.TTBIndices{
		Wellness:  EvaluateReadiness(in.Snapshot).Score,
		Strength:  strengthIndex(in.Now, in.History),
		Endurance: enduranceIndex(in.Snapshot.VO2Max, in.CardioMinutes7d),
	}

	t.Lowest = "wellness"
	low := t.Wellness
	if t.Endurance < low {
		t.Lowest, low = "endurance", t.Endurance
	}
	if t.Strength < low {
		t.Lowest = "strength"
	}
	return t
}

// strengthIndex blends two monotonic signals over the 14-day window: the
// count of notable (epic/legendary) sets and the e1RM trend against the
// preceding window. Empty history is neutral, not weak.
func strengthIndex(now time.Time, history []models.ExerciseLogEntry) float64 {
	if len(history) == 0 {
		return neutralBaseline
	}

	windowStart := now.AddDate(0, 0, -strengthWindowDays)
	baselineStart := now.AddDate(0, 0, -2*strengthWindowDays)

	var notable int
	var windowSum, baselineSum float64
	var windowN, baselineN int
	for _, e := range history {
		switch {
		case e.Date.After(windowStart):
			if e.Notable {
				notable++
			}
			windowSum += e.Estimated1RM
			windowN++
		case e.Date.After(baselineStart):
			baselineSum += e.Estimated1RM
			baselineN++
		}
	}

	countScore := math.Min(100, float64(notable)*pointsPerNotable)

	// Trend: window-average e1RM against the prior window, mapped so that
	// -10% reads 0 and +10% reads 100. Without a baseline the trend is
	// neutral.
	trendScore := neutralBaseline
	if windowN > 0 && baselineN > 0 && baselineSum > 0 {
		ratio := (windowSum / float64(windowN)) / (baselineSum / float64(baselineN))
		trendScore = clamp01((ratio-0.9)/0.2) * 100
	}

	return countScore*0.5 + trendScore*0.5
}

// enduranceIndex blends VO2max position in the 30-60 reference band with
// 7-day cardio volume against a 150-minute reference. Missing VO2max is
// neutral.
func enduranceIndex(vo2max *float64, cardioMinutes float64) float64 {
	vo2Score := neutralBaseline
	if vo2max != nil {
		vo2Score = clamp01((*vo2max-vo2LowRef)/(vo2HighRef-vo2LowRef)) * 100
	}
	volumeScore := math.Min(100, cardioMinutes/cardioReferenceMinutes*100)
	return vo2Score*0.5 + volumeScore*0.5
}

func clamp01(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
