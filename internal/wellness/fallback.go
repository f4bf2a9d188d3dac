package wellness

import (
	"time"

	"github.com/claude/ironquest/internal/models"
)

// maxSnapshotAge is how stale a stored snapshot may be before the
// recommendation cycle falls back to the simulated reading.
const maxSnapshotAge = 48 * time.Hour

func f(v float64) *float64 { return &v }

// SimulatedSnapshot is the documented offline fallback: a moderately fresh,
// moderately trained athlete. Used whenever the provider is unreachable and
// no recent reading is stored, so the engine still produces a sane
// recommendation instead of failing the cycle.
func SimulatedSnapshot(now time.Time) models.WellnessSnapshot {
	return models.WellnessSnapshot{
		TakenAt:     now,
		SleepScore:  f(90),
		BodyBattery: f(85),
		VO2Max:      f(58),
		CTL:         f(60),
		ATL:         f(40),
		TSB:         f(-5),
		Simulated:   true,
	}
}

// SnapshotOrFallback returns the stored snapshot when it is present and
// recent enough, otherwise the simulated fallback. The second return reports
// whether the fallback was substituted.
func SnapshotOrFallback(stored *models.WellnessSnapshot, now time.Time) (models.WellnessSnapshot, bool) {
	if stored == nil || now.Sub(stored.TakenAt) > maxSnapshotAge {
		return SimulatedSnapshot(now), true
	}
	return *stored, false
}
