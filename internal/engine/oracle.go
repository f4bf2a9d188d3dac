package engine

import (
	"fmt"
	"time"

	"github.com/claude/ironquest/internal/models"
)

// RecommendationType names the branch of the priority ladder that fired.
type RecommendationType string

const (
	RecRecovery         RecommendationType = "RECOVERY"
	RecPRAttempt        RecommendationType = "PR_ATTEMPT"
	RecCardioValidation RecommendationType = "CARDIO_VALIDATION"
	RecGrind            RecommendationType = "GRIND"
	RecTaper            RecommendationType = "TAPER"
	RecCompetitionPrep  RecommendationType = "COMPETITION_PREP"
)

// Priority scores for each ladder branch, higher is more urgent. Event
// branches outrank the safety override on purpose: race-week handling already
// limits load, and a race one day out must not be silently replaced by a rest
// day.
const (
	priorityPostEvent    = 110
	priorityImminent     = 105
	priorityTaper        = 105
	prioritySafety       = 100
	priorityWellnessFix  = 95
	priorityEnduranceFix = 90
	priorityStrengthFix  = 90
	priorityMaintenance  = 50
)

// balanceFloor is the index value under which a triad dimension counts as
// neglected and triggers a balance-correction branch.
const balanceFloor = 65.0

// Recommendation is the oracle's output. Session is set only by generating
// branches; SessionRef points at an existing template for referencing
// branches. Never mutated after return.
type Recommendation struct {
	Type           RecommendationType      `json:"type"`
	Title          string                  `json:"title"`
	Rationale      string                  `json:"rationale"`
	PriorityScore  int                     `json:"priority_score"`
	Session        *models.SessionTemplate `json:"session,omitempty"`
	SessionRef     string                  `json:"session_ref,omitempty"`
	TargetExercise string                  `json:"target_exercise,omitempty"`
}

// OracleInput bundles everything a recommendation cycle consumes. Now is
// captured once by the caller; the engine reads no clock of its own.
type OracleInput struct {
	Now             time.Time
	Snapshot        models.WellnessSnapshot
	History         []models.ExerciseLogEntry
	Events          []models.TrainingEvent
	CardioMinutes7d float64

	// Referenced (not generated) session ids for the strength-correction and
	// maintenance branches.
	StrengthSessionID    string
	MaintenanceSessionID string
}

// Recommend runs the priority ladder and returns the first matching branch.
// Each rationale embeds the numeric trigger so the message is traceable to
// the decision.
func Recommend(in OracleInput) Recommendation {
	window := ClassifyEvents(in.Now, in.Events)
	readiness := EvaluateReadiness(in.Snapshot)

	// 1. Post-event recovery.
	if window.JustFinished != nil {
		return Recommendation{
			Type:          RecRecovery,
			Title:         "Recover from " + window.JustFinished.Name,
			Rationale:     fmt.Sprintf("%s finished %d day(s) ago — absorb the effort before training hard again.", window.JustFinished.Name, window.DaysSince),
			PriorityScore: priorityPostEvent,
		}
	}

	// 2-3. Competition approaching: imminent priming or taper.
	if window.Upcoming != nil {
		if window.Imminent {
			session := PrimingSession()
			return Recommendation{
				Type:          RecCompetitionPrep,
				Title:         "Prime for " + window.Upcoming.Name,
				Rationale:     fmt.Sprintf("%s is %d day(s) out — short high-intensity priming, near-zero volume.", window.Upcoming.Name, window.DaysUntil),
				PriorityScore: priorityImminent,
				Session:       &session,
			}
		}
		return Recommendation{
			Type:          RecTaper,
			Title:         "Taper for " + window.Upcoming.Name,
			Rationale:     fmt.Sprintf("%s is %d day(s) out — halve planned volume, keep intensity touches only.", window.Upcoming.Name, window.DaysUntil),
			PriorityScore: priorityTaper,
		}
	}

	// 4. Safety override: hard gate on raw battery/sleep.
	if readiness.State == StateCompromised {
		return Recommendation{
			Type:          RecRecovery,
			Title:         "Full Rest",
			Rationale:     fmt.Sprintf("Readiness compromised (body battery %.0f, sleep %.0f) — no session today.", orBaseline(in.Snapshot.BodyBattery), orBaseline(in.Snapshot.SleepScore)),
			PriorityScore: prioritySafety,
		}
	}

	// 5-7. Balance correction on the weakest triad index.
	ttb := ComputeTTB(TTBInput{
		Now:             in.Now,
		Snapshot:        in.Snapshot,
		History:         in.History,
		CardioMinutes7d: in.CardioMinutes7d,
	})
	if lowestValue(ttb) < balanceFloor {
		switch ttb.Lowest {
		case "wellness":
			session := ActiveRecoverySession()
			return Recommendation{
				Type:          RecRecovery,
				Title:         "Active Recovery",
				Rationale:     fmt.Sprintf("Wellness index at %.0f is your weakest dimension — mobility and zone-1 work today.", ttb.Wellness),
				PriorityScore: priorityWellnessFix,
				Session:       &session,
			}
		case "endurance":
			session := IntervalSession()
			return Recommendation{
				Type:          RecCardioValidation,
				Title:         "Build the Engine",
				Rationale:     fmt.Sprintf("Endurance index at %.0f is your weakest dimension — structured intervals today.", ttb.Endurance),
				PriorityScore: priorityEnduranceFix,
				Session:       &session,
			}
		case "strength":
			// Strength work follows fixed progression templates; reference,
			// never generate.
			return Recommendation{
				Type:           RecGrind,
				Title:          "Strength Focus",
				Rationale:      fmt.Sprintf("Strength index at %.0f is your weakest dimension — run your progression on %s.", ttb.Strength, targetExercise(in.History)),
				PriorityScore:  priorityStrengthFix,
				SessionRef:     in.StrengthSessionID,
				TargetExercise: targetExercise(in.History),
			}
		}
	}

	// 8. Default maintenance: balanced triad, clear calendar.
	return Recommendation{
		Type:          RecGrind,
		Title:         "Maintenance Session",
		Rationale:     fmt.Sprintf("Triad balanced (strength %.0f / endurance %.0f / wellness %.0f), no events pending — standard session.", ttb.Strength, ttb.Endurance, ttb.Wellness),
		PriorityScore: priorityMaintenance,
		SessionRef:    in.MaintenanceSessionID,
	}
}

func lowestValue(t models.TTBIndices) float64 {
	low := t.Wellness
	if t.Endurance < low {
		low = t.Endurance
	}
	if t.Strength < low {
		low = t.Strength
	}
	return low
}

// targetExercise picks the lift with the highest logged e1RM — the athlete's
// primary movement — falling back to the back squat with no history.
func targetExercise(history []models.ExerciseLogEntry) string {
	best := ""
	var bestE1RM float64
	for _, e := range history {
		if e.Estimated1RM > bestE1RM {
			best = e.ExerciseID
			bestE1RM = e.Estimated1RM
		}
	}
	if best == "" {
		return "back_squat"
	}
	return best
}
