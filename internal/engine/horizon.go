package engine

import (
	"time"

	"github.com/claude/ironquest/internal/models"
)

const (
	justFinishedWindowDays = 2
	imminentWindowDays     = 2
	taperWindowDays        = 7
)

// EventWindow is the classified competition horizon around "now". Only
// RACE-category events participate; workouts and notes are ignored.
type EventWindow struct {
	// JustFinished is the most recent race that ended within the last two
	// days, if any. Takes top arbitration priority.
	JustFinished *models.TrainingEvent `json:"just_finished,omitempty"`
	DaysSince    int                   `json:"days_since,omitempty"`

	// Upcoming is the nearest race within the next seven days, if any.
	// Imminent means it is at most two days out and calls for a priming
	// session; otherwise the window is a taper.
	Upcoming  *models.TrainingEvent `json:"upcoming,omitempty"`
	DaysUntil int                   `json:"days_until,omitempty"`
	Imminent  bool                  `json:"imminent,omitempty"`
}

// ClassifyEvents scans the calendar for race windows around now.
func ClassifyEvents(now time.Time, events []models.TrainingEvent) EventWindow {
	var w EventWindow
	for i := range events {
		ev := &events[i]
		if ev.Category != models.EventRace {
			continue
		}

		days := calendarDays(now, ev.StartDate)
		switch {
		case days < 0:
			since := -days
			if since <= justFinishedWindowDays && (w.JustFinished == nil || since < w.DaysSince) {
				w.JustFinished = ev
				w.DaysSince = since
			}
		case days <= taperWindowDays:
			if w.Upcoming == nil || days < w.DaysUntil {
				w.Upcoming = ev
				w.DaysUntil = days
				w.Imminent = days <= imminentWindowDays
			}
		}
	}
	return w
}

// calendarDays returns the whole-day difference from a to b, positive when b
// is ahead of a. Both are normalized to local midnight so a race tomorrow
// morning counts as one day out regardless of the hour.
func calendarDays(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	return int(b.Sub(a).Hours() / 24)
}
