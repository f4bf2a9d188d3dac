package engine

import (
	"fmt"

	"github.com/claude/ironquest/internal/models"
	"github.com/google/uuid"
)

// Generated session ids are opaque: unique for bookkeeping, never load-bearing
// for branch selection or assertions.
func sessionID(kind string) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

func pct(f float64) *float64 { return &f }

// ActiveRecoverySession builds a generated mobility + zone-1 session for a
// wellness balance correction: long easy aerobic work and joint prep, nothing
// percent-loaded above a token intensity.
func ActiveRecoverySession() models.SessionTemplate {
	return models.SessionTemplate{
		ID:          sessionID("active-recovery"),
		DisplayName: "Active Recovery",
		Blocks: []models.Block{
			{
				Kind: models.BlockWarmup,
				Name: "Mobility Flow",
				Exercises: []models.Exercise{
					{
						ExerciseID: "worlds_greatest_stretch",
						Name:       "World's Greatest Stretch",
						Sets:       []models.SetPlan{{TargetReps: 5}, {TargetReps: 5}},
					},
					{
						ExerciseID: "cat_cow",
						Name:       "Cat-Cow",
						Sets:       []models.SetPlan{{TargetReps: 10}},
					},
				},
			},
			{
				Kind:         models.BlockStation,
				Name:         "Zone 1 Aerobic",
				Instructions: []string{"Conversational pace throughout. Nose breathing only."},
				Exercises: []models.Exercise{
					{
						ExerciseID: "zone1_bike",
						Name:       "Easy Bike (30 min, zone 1)",
						Sets:       []models.SetPlan{{TargetReps: 1}},
					},
				},
			},
		},
	}
}

// IntervalSession builds a structured interval workout for an endurance
// balance correction.
func IntervalSession() models.SessionTemplate {
	intervals := make([]models.SetPlan, 6)
	for i := range intervals {
		intervals[i] = models.SetPlan{TargetReps: 1}
	}
	return models.SessionTemplate{
		ID:          sessionID("intervals"),
		DisplayName: "Threshold Intervals",
		Blocks: []models.Block{
			{
				Kind: models.BlockWarmup,
				Name: "Aerobic Ramp",
				Exercises: []models.Exercise{
					{
						ExerciseID: "warmup_jog",
						Name:       "Easy Jog (10 min, building)",
						Sets:       []models.SetPlan{{TargetReps: 1}},
					},
				},
			},
			{
				Kind:         models.BlockStation,
				Name:         "Intervals",
				Instructions: []string{"6 x 3 min at threshold effort, 2 min easy between."},
				Exercises: []models.Exercise{
					{
						ExerciseID: "threshold_interval",
						Name:       "3 min Threshold Repeat",
						Sets:       intervals,
					},
				},
			},
		},
	}
}

// PrimingSession builds the short, high-intensity, near-zero-volume session
// used in the final days before a race: a handful of heavy-but-crisp singles
// to sharpen the nervous system without accumulating fatigue.
func PrimingSession() models.SessionTemplate {
	return models.SessionTemplate{
		ID:          sessionID("priming"),
		DisplayName: "Race Priming",
		Blocks: []models.Block{
			{
				Kind: models.BlockWarmup,
				Name: "Primer Warm-up",
				Exercises: []models.Exercise{
					{
						ExerciseID: "jump_rope",
						Name:       "Jump Rope (3 min)",
						Sets:       []models.SetPlan{{TargetReps: 1}},
					},
				},
			},
			{
				Kind:         models.BlockTransition,
				Name:         "Setup",
				Instructions: []string{"Load the bar to opener weight. Full rest between singles."},
			},
			{
				Kind:         models.BlockStation,
				Name:         "Openers",
				Instructions: []string{"Crisp singles. Stop the moment bar speed drops."},
				Exercises: []models.Exercise{
					{
						ExerciseID: "primary_lift",
						Name:       "Primary Lift Singles",
						Sets: []models.SetPlan{
							{TargetReps: 1, WeightPct: pct(0.80)},
							{TargetReps: 1, WeightPct: pct(0.85)},
							{TargetReps: 1, WeightPct: pct(0.90)},
						},
					},
				},
			},
		},
	}
}
