package models

import (
	"time"

	"github.com/google/uuid"
)

// WellnessSnapshot is a point-in-time physiological reading from the metrics
// provider. All fields are optional; the readiness model substitutes neutral
// defaults for missing values so a sparse snapshot never reads as compromised.
type WellnessSnapshot struct {
	TakenAt     time.Time `json:"taken_at"`
	SleepScore  *float64  `json:"sleep_score,omitempty"`
	BodyBattery *float64  `json:"body_battery,omitempty"`
	HRVMs       *float64  `json:"hrv_ms,omitempty"`
	RestingHR   *float64  `json:"resting_hr,omitempty"`
	VO2Max      *float64  `json:"vo2max,omitempty"`
	CTL         *float64  `json:"ctl,omitempty"`
	ATL         *float64  `json:"atl,omitempty"`
	TSB         *float64  `json:"tsb,omitempty"`
	Simulated   bool      `json:"simulated,omitempty"`
}

// EventCategory classifies a calendar entry.
type EventCategory string

const (
	EventRace    EventCategory = "RACE"
	EventWorkout EventCategory = "WORKOUT"
	EventNote    EventCategory = "NOTE"
)

// TrainingEvent is a calendar entry fetched from the metrics provider.
// Read-only once fetched.
type TrainingEvent struct {
	ID        uuid.UUID     `json:"id"`
	StartDate time.Time     `json:"start_date"`
	Name      string        `json:"name"`
	Category  EventCategory `json:"category"`
	Type      string        `json:"type,omitempty"`
}

// ExerciseLogEntry is a completed historical performance. Entries are
// append-only and ordered by date ascending for trend analysis.
type ExerciseLogEntry struct {
	ID           uuid.UUID `json:"id"`
	Date         time.Time `json:"date"`
	ExerciseID   string    `json:"exercise_id"`
	Estimated1RM float64   `json:"estimated_1rm"`
	RPE          float64   `json:"rpe"`
	Notable      bool      `json:"notable"`
}

// SkillCategory is the closed set of skill-node tags. Anything outside the
// three recognized tags maps to CategoryGeneral, which never attracts a
// readiness-based cost adjustment.
type SkillCategory string

const (
	CategoryStrength  SkillCategory = "strength"
	CategoryEndurance SkillCategory = "endurance"
	CategoryStability SkillCategory = "stability"
	CategoryGeneral   SkillCategory = "general"
)

// ParseSkillCategory maps a raw tag onto the closed category set.
func ParseSkillCategory(s string) SkillCategory {
	switch SkillCategory(s) {
	case CategoryStrength, CategoryEndurance, CategoryStability:
		return SkillCategory(s)
	default:
		return CategoryGeneral
	}
}

// SkillNode is an unlockable skill with a base cost. The cost modifier never
// mutates a node; it returns a derived cost.
type SkillNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	BaseCost int           `json:"base_cost"`
}

// TTBIndices is the three-way training balance, each index 0-100.
// Recomputed every cycle; never persisted by the engine.
type TTBIndices struct {
	Strength  float64 `json:"strength"`
	Endurance float64 `json:"endurance"`
	Wellness  float64 `json:"wellness"`
	Lowest    string  `json:"lowest"`
}

// DailyActivity is one day's aggregated cardio volume, used by the endurance
// index and supplied by the metrics provider.
type DailyActivity struct {
	Date          time.Time `json:"date"`
	CardioMinutes float64   `json:"cardio_minutes"`
	TrainingLoad  float64   `json:"training_load"`
}
