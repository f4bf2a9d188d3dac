package engine

import (
	"testing"
	"time"

	"github.com/claude/ironquest/internal/models"
	"github.com/google/uuid"
)

var horizonNow = time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)

func raceEvent(name string, daysOffset int) models.TrainingEvent {
	return models.TrainingEvent{
		ID:        uuid.New(),
		StartDate: horizonNow.AddDate(0, 0, daysOffset),
		Name:      name,
		Category:  models.EventRace,
	}
}

// TestHorizonJustFinished verifies a race two days back flags the post-event
// recovery window.
func TestHorizonJustFinished(t *testing.T) {
	w := ClassifyEvents(horizonNow, []models.TrainingEvent{raceEvent("City 10k", -2)})
	if w.JustFinished == nil {
		t.Fatal("just-finished window not flagged for race 2 days back")
	}
	if w.DaysSince != 2 {
		t.Errorf("days since = %d, want 2", w.DaysSince)
	}
	if w.Upcoming != nil {
		t.Error("upcoming window flagged for a past race")
	}
}

// TestHorizonJustFinishedMostRecent verifies the most recent qualifying race
// wins when two fall inside the window.
func TestHorizonJustFinishedMostRecent(t *testing.T) {
	w := ClassifyEvents(horizonNow, []models.TrainingEvent{
		raceEvent("Older Race", -2),
		raceEvent("Newer Race", -1),
	})
	if w.JustFinished == nil || w.JustFinished.Name != "Newer Race" {
		t.Errorf("just-finished = %+v, want Newer Race", w.JustFinished)
	}
}

// TestHorizonStaleRaceIgnored verifies a race three days back is outside the
// recovery window.
func TestHorizonStaleRaceIgnored(t *testing.T) {
	w := ClassifyEvents(horizonNow, []models.TrainingEvent{raceEvent("Old Race", -3)})
	if w.JustFinished != nil {
		t.Errorf("just-finished = %+v, want nil for race 3 days back", w.JustFinished)
	}
}

// TestHorizonImminentVersusTaper verifies the split of the upcoming window:
// at most 2 days out is imminent (priming session), 3-7 days out is taper.
func TestHorizonImminentVersusTaper(t *testing.T) {
	w := ClassifyEvents(horizonNow, []models.TrainingEvent{raceEvent("Meet", 1)})
	if w.Upcoming == nil || !w.Imminent {
		t.Errorf("race 1 day out: window = %+v, want imminent", w)
	}
	if w.DaysUntil != 1 {
		t.Errorf("days until = %d, want 1", w.DaysUntil)
	}

	w = ClassifyEvents(horizonNow, []models.TrainingEvent{raceEvent("Meet", 5)})
	if w.Upcoming == nil || w.Imminent {
		t.Errorf("race 5 days out: window = %+v, want taper (not imminent)", w)
	}

	w = ClassifyEvents(horizonNow, []models.TrainingEvent{raceEvent("Meet", 8)})
	if w.Upcoming != nil {
		t.Errorf("race 8 days out: window = %+v, want no upcoming flag", w)
	}
}

// TestHorizonRaceDayIsImminent verifies a race starting today counts as
// upcoming and imminent, not just-finished (the 0 < days-since bound).
func TestHorizonRaceDayIsImminent(t *testing.T) {
	w := ClassifyEvents(horizonNow, []models.TrainingEvent{raceEvent("Today Race", 0)})
	if w.JustFinished != nil {
		t.Error("race today flagged as just-finished, want upcoming")
	}
	if w.Upcoming == nil || !w.Imminent || w.DaysUntil != 0 {
		t.Errorf("window = %+v, want imminent at 0 days", w)
	}
}

// TestHorizonNonRaceIgnored verifies only RACE-category events participate.
func TestHorizonNonRaceIgnored(t *testing.T) {
	ev := raceEvent("Tempo Workout", 1)
	ev.Category = models.EventWorkout
	note := raceEvent("Shoe reminder", -1)
	note.Category = models.EventNote

	w := ClassifyEvents(horizonNow, []models.TrainingEvent{ev, note})
	if w.Upcoming != nil || w.JustFinished != nil {
		t.Errorf("window = %+v, want empty for non-race events", w)
	}
}

// TestHorizonNearestUpcomingWins verifies the nearest upcoming race defines
// the window when several are scheduled.
func TestHorizonNearestUpcomingWins(t *testing.T) {
	w := ClassifyEvents(horizonNow, []models.TrainingEvent{
		raceEvent("Far Meet", 6),
		raceEvent("Near Meet", 2),
	})
	if w.Upcoming == nil || w.Upcoming.Name != "Near Meet" {
		t.Errorf("upcoming = %+v, want Near Meet", w.Upcoming)
	}
	if !w.Imminent {
		t.Error("want imminent for nearest race 2 days out")
	}
}
