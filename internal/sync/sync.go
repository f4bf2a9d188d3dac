package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/ironquest/internal/wellness"
)

// Stats summarizes one sync run.
type Stats struct {
	DaysChecked      int
	DaysSynced       int
	DaysSkipped      int
	DaysErrored      int
	EventsSent       int
	ActivityDaysSent int
}

// Syncer orchestrates a pull-push cycle: fetch from the provider, push to the
// server, record progress locally.
type Syncer struct {
	provider *wellness.Client
	push     *Client
	state    *wellness.StateDB
	backfill int
	dryRun   bool
	log      *slog.Logger
}

// New creates a Syncer. backfillDays is how many days of wellness history to
// check, today included; push may be nil in dry-run mode.
func New(provider *wellness.Client, push *Client, state *wellness.StateDB, backfillDays int, dryRun bool, log *slog.Logger) *Syncer {
	if backfillDays < 1 {
		backfillDays = 1
	}
	return &Syncer{
		provider: provider,
		push:     push,
		state:    state,
		backfill: backfillDays,
		dryRun:   dryRun,
		log:      log,
	}
}

// Run executes one sync cycle: wellness days oldest-first, then the event
// calendar, then activity summaries. Individual day failures are logged and
// skipped so one provider hiccup doesn't abort the backfill.
func (s *Syncer) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := s.backfill - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		stats.DaysChecked++

		synced, err := s.state.IsSynced(day)
		if err != nil {
			return stats, err
		}
		if synced {
			stats.DaysSkipped++
			continue
		}

		payload, err := s.provider.FetchDaily(ctx, day)
		if err != nil {
			s.log.Warn("wellness fetch failed", "day", day.Format("2006-01-02"), "error", err)
			stats.DaysErrored++
			continue
		}

		if s.dryRun {
			s.log.Info("dry run: would sync wellness", "day", day.Format("2006-01-02"))
			continue
		}

		if err := s.push.SendWellness(*payload); err != nil {
			s.log.Warn("wellness push failed", "day", day.Format("2006-01-02"), "error", err)
			stats.DaysErrored++
			continue
		}

		if err := s.state.SaveSnapshot(payload.Snapshot()); err != nil {
			s.log.Warn("caching snapshot failed", "error", err)
		}

		// Today's reading keeps updating until midnight, so only completed
		// days are marked done.
		if day.Before(today) {
			if err := s.state.MarkSynced(day); err != nil {
				return stats, err
			}
		}
		stats.DaysSynced++
	}

	if err := s.syncEvents(ctx, now, stats); err != nil {
		s.log.Warn("event sync failed", "error", err)
	}
	if err := s.syncActivity(ctx, now, stats); err != nil {
		s.log.Warn("activity sync failed", "error", err)
	}

	return stats, nil
}

func (s *Syncer) syncEvents(ctx context.Context, now time.Time, stats *Stats) error {
	// Cover the engine's whole horizon: finished races behind, taper ahead.
	payload, err := s.provider.FetchEvents(ctx, now.AddDate(0, 0, -7), now.AddDate(0, 0, 14))
	if err != nil {
		return err
	}
	if len(payload.Events) == 0 {
		return nil
	}

	if s.dryRun {
		s.log.Info("dry run: would sync events", "count", len(payload.Events))
		return nil
	}

	if err := s.push.SendEvents(*payload); err != nil {
		return err
	}
	stats.EventsSent = len(payload.Events)
	return nil
}

func (s *Syncer) syncActivity(ctx context.Context, now time.Time, stats *Stats) error {
	payload, err := s.provider.FetchActivity(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		return err
	}
	if len(payload.Days) == 0 {
		return nil
	}

	if s.dryRun {
		s.log.Info("dry run: would sync activity", "days", len(payload.Days))
		return nil
	}

	if err := s.push.SendActivity(*payload); err != nil {
		return err
	}
	stats.ActivityDaysSent = len(payload.Days)
	return nil
}
