package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/claude/ironquest/internal/models"
)

func percentSession() models.SessionTemplate {
	return models.SessionTemplate{
		ID:          "tpl-squat-day",
		DisplayName: "Squat Day",
		Blocks: []models.Block{
			{
				Kind: models.BlockWarmup,
				Name: "General Warm-up",
				Exercises: []models.Exercise{
					{
						ExerciseID: "row_erg",
						Name:       "Row Erg (5 min)",
						Sets:       []models.SetPlan{{TargetReps: 1}},
					},
				},
			},
			{
				Kind: models.BlockStation,
				Name: "Main Lift",
				Exercises: []models.Exercise{
					{
						ExerciseID: "back_squat",
						Name:       "Back Squat",
						Cues:       []string{"Brace hard before each rep."},
						Sets: []models.SetPlan{
							{TargetReps: 5, WeightPct: pct(0.5)},
							{TargetReps: 5, WeightPct: pct(0.7)},
							{TargetReps: 3, WeightPct: pct(0.9), IsPRZone: true},
							{TargetReps: 3, WeightPct: pct(0.85)},
							{TargetReps: models.RepsAMRAP, WeightPct: pct(0.75)},
						},
					},
				},
			},
			{
				Kind:         models.BlockTransition,
				Name:         "Equipment Change",
				Instructions: []string{"Strip the bar, set up the bench."},
			},
		},
	}
}

// TestRegulateCapCorrectness verifies the full cap on a five-set percent
// exercise: truncated to exactly 3 sets, the over-60% third set clamped to
// 0.6 and marked poor, its PR flag cleared and reps forced to 5.
func TestRegulateCapCorrectness(t *testing.T) {
	out, err := RegulateSession(percentSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex := out.Blocks[1].Exercises[0]
	if len(ex.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(ex.Sets))
	}

	third := ex.Sets[2]
	if third.WeightPct == nil || *third.WeightPct != 0.6 {
		t.Errorf("third set weight pct = %v, want 0.6", third.WeightPct)
	}
	if third.IsPRZone {
		t.Error("third set PR flag still set, want cleared")
	}
	if third.TargetReps != 5 {
		t.Errorf("third set target reps = %d, want fallback 5", third.TargetReps)
	}
	if third.Tier != string(RarityPoor) {
		t.Errorf("third set tier = %q, want poor", third.Tier)
	}

	// Sets at or under the cap keep their loading.
	if *ex.Sets[0].WeightPct != 0.5 {
		t.Errorf("first set weight pct = %v, want 0.5 untouched", *ex.Sets[0].WeightPct)
	}
	if *ex.Sets[1].WeightPct != 0.6 {
		t.Errorf("second set weight pct = %v, want clamped to 0.6", *ex.Sets[1].WeightPct)
	}
}

// TestRegulateNonMutation verifies the original template is untouched after
// regulation: same set count, same weights, same name. The caller's source
// template must never be observed in a modified state.
func TestRegulateNonMutation(t *testing.T) {
	original := percentSession()
	if _, err := RegulateSession(original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex := original.Blocks[1].Exercises[0]
	if len(ex.Sets) != 5 {
		t.Fatalf("original set count = %d, want 5", len(ex.Sets))
	}
	if *ex.Sets[2].WeightPct != 0.9 {
		t.Errorf("original third set pct = %v, want 0.9", *ex.Sets[2].WeightPct)
	}
	if !ex.Sets[2].IsPRZone {
		t.Error("original PR flag cleared, want intact")
	}
	if ex.Name != "Back Squat" {
		t.Errorf("original exercise name = %q, want unprefixed", ex.Name)
	}
	if original.DisplayName != "Squat Day" {
		t.Errorf("original display name = %q, want unsuffixed", original.DisplayName)
	}
}

// TestRegulateMarkers verifies the fatigued prefix, the prepended intensity
// cue, and the volume-capped name suffix.
func TestRegulateMarkers(t *testing.T) {
	out, err := RegulateSession(percentSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex := out.Blocks[1].Exercises[0]
	if !strings.HasPrefix(ex.Name, fatiguedNamePrefix) {
		t.Errorf("exercise name = %q, want %q prefix", ex.Name, fatiguedNamePrefix)
	}
	if len(ex.Cues) == 0 || ex.Cues[0] != fatiguedCue {
		t.Errorf("cues = %v, want intensity cue prepended", ex.Cues)
	}
	if len(ex.Cues) != 2 || ex.Cues[1] != "Brace hard before each rep." {
		t.Errorf("cues = %v, want original cue preserved after the prepend", ex.Cues)
	}
	if !strings.HasSuffix(out.DisplayName, cappedNameSuffix) {
		t.Errorf("display name = %q, want %q suffix", out.DisplayName, cappedNameSuffix)
	}
}

// TestRegulateSkipsNonPercent verifies fixed-load exercises and transition
// blocks pass through untouched.
func TestRegulateSkipsNonPercent(t *testing.T) {
	out, err := RegulateSession(percentSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	warmup := out.Blocks[0].Exercises[0]
	if strings.HasPrefix(warmup.Name, fatiguedNamePrefix) {
		t.Errorf("fixed-load warm-up exercise was prefixed: %q", warmup.Name)
	}

	transition := out.Blocks[2]
	if len(transition.Instructions) != 1 || transition.Instructions[0] != "Strip the bar, set up the bench." {
		t.Errorf("transition instructions = %v, want untouched", transition.Instructions)
	}
}

// TestRegulateEmptyTemplate verifies the structural-invalid error for a
// template with no blocks.
func TestRegulateEmptyTemplate(t *testing.T) {
	_, err := RegulateSession(models.SessionTemplate{ID: "empty"})
	if !errors.Is(err, ErrEmptySession) {
		t.Errorf("error = %v, want ErrEmptySession", err)
	}
}

// TestRegulateNegativeValues verifies negative weight percent is rejected as
// structurally invalid rather than clamped.
func TestRegulateNegativeValues(t *testing.T) {
	tpl := percentSession()
	tpl.Blocks[1].Exercises[0].Sets[0].WeightPct = pct(-0.5)
	if _, err := RegulateSession(tpl); err == nil {
		t.Error("want error for negative weight percent, got nil")
	}
}
