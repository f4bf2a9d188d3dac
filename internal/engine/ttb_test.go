package engine

import (
	"testing"
	"time"

	"github.com/claude/ironquest/internal/models"
)

var ttbNow = time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

func logEntry(daysAgo int, e1rm float64, notable bool) models.ExerciseLogEntry {
	return models.ExerciseLogEntry{
		Date:         ttbNow.AddDate(0, 0, -daysAgo),
		ExerciseID:   "back_squat",
		Estimated1RM: e1rm,
		Notable:      notable,
	}
}

// TestTTBEmptyInputsNeutral verifies that no history, no VO2max, and no
// cardio produce a neutral strength index and a defined lowest pick rather
// than zeros.
func TestTTBEmptyInputsNeutral(t *testing.T) {
	got := ComputeTTB(TTBInput{Now: ttbNow})
	if got.Strength != 50 {
		t.Errorf("strength = %v, want 50 (neutral with no history)", got.Strength)
	}
	if got.Wellness != 50 {
		t.Errorf("wellness = %v, want 50", got.Wellness)
	}
	// endurance = 50 (vo2 neutral) * 0.5 + 0 (no cardio) * 0.5
	if got.Endurance != 25 {
		t.Errorf("endurance = %v, want 25", got.Endurance)
	}
	if got.Lowest != "endurance" {
		t.Errorf("lowest = %q, want endurance", got.Lowest)
	}
}

// TestTTBStrengthMonotonicInPRs verifies the documented contract for the
// strength curve: more notable sets in the window never lowers the index.
func TestTTBStrengthMonotonicInPRs(t *testing.T) {
	history := []models.ExerciseLogEntry{logEntry(3, 140, true)}
	prev := strengthIndex(ttbNow, history)
	for i := 0; i < 10; i++ {
		history = append(history, logEntry(3, 140, true))
		cur := strengthIndex(ttbNow, history)
		if cur < prev {
			t.Fatalf("strength index dropped from %v to %v when a notable set was added", prev, cur)
		}
		prev = cur
	}
}

// TestTTBStrengthTrend verifies that a rising e1RM between windows scores
// above a flat one.
func TestTTBStrengthTrend(t *testing.T) {
	flat := []models.ExerciseLogEntry{
		logEntry(20, 140, false),
		logEntry(5, 140, false),
	}
	rising := []models.ExerciseLogEntry{
		logEntry(20, 140, false),
		logEntry(5, 154, false),
	}
	if strengthIndex(ttbNow, rising) <= strengthIndex(ttbNow, flat) {
		t.Errorf("rising e1RM scored %v, not above flat %v",
			strengthIndex(ttbNow, rising), strengthIndex(ttbNow, flat))
	}
}

// TestTTBEnduranceBand verifies the VO2max normalization band: 30 maps to the
// bottom, 60 to the top, with cardio volume blended in.
func TestTTBEnduranceBand(t *testing.T) {
	low := enduranceIndex(f(30), 0)
	if low != 0 {
		t.Errorf("endurance at VO2 30, no cardio = %v, want 0", low)
	}
	high := enduranceIndex(f(60), 150)
	if high != 100 {
		t.Errorf("endurance at VO2 60, 150 cardio min = %v, want 100", high)
	}
}

// TestTTBLowestTieBreak verifies ties resolve wellness > endurance > strength.
// With every signal neutral-identical, wellness must win.
func TestTTBLowestTieBreak(t *testing.T) {
	got := ComputeTTB(TTBInput{
		Now:             ttbNow,
		Snapshot:        models.WellnessSnapshot{SleepScore: f(50), BodyBattery: f(50)},
		CardioMinutes7d: 75, // endurance = 50*0.5 + 50*0.5 = 50
	})
	if got.Wellness != 50 || got.Endurance != 50 || got.Strength != 50 {
		t.Fatalf("indices = %+v, want all 50 for tie setup", got)
	}
	if got.Lowest != "wellness" {
		t.Errorf("lowest = %q, want wellness on three-way tie", got.Lowest)
	}
}

// TestTTBLowestEnduranceOverStrength verifies the second tie-break step:
// endurance beats strength when the two tie below wellness.
func TestTTBLowestEnduranceOverStrength(t *testing.T) {
	got := ComputeTTB(TTBInput{
		Now:             ttbNow,
		Snapshot:        models.WellnessSnapshot{SleepScore: f(90), BodyBattery: f(90), HRVMs: f(60)},
		CardioMinutes7d: 75,
	})
	// strength and endurance both 50, wellness 92
	if got.Lowest != "endurance" {
		t.Errorf("lowest = %q, want endurance over strength on tie", got.Lowest)
	}
}
