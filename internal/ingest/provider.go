// Package ingest validates provider payloads and stores the accepted data.
// It sits between the HTTP ingest endpoints (and the sync CLI behind them)
// and the storage layer; the engine only ever sees data that passed through
// here.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/ironquest/internal/models"
	"github.com/claude/ironquest/internal/storage"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	SnapshotsReceived int   `json:"snapshots_received,omitempty"`
	SnapshotsInserted int   `json:"snapshots_inserted,omitempty"`
	SnapshotsSkipped  int   `json:"snapshots_skipped,omitempty"`
	EventsReceived    int   `json:"events_received,omitempty"`
	EventsUpserted    int64 `json:"events_upserted,omitempty"`
	EventsRejected    int   `json:"events_rejected,omitempty"`
	DaysReceived      int   `json:"days_received,omitempty"`
	DaysUpserted      int64 `json:"days_upserted,omitempty"`

	Message string `json:"message,omitempty"`
}

// Provider processes metrics-provider payloads.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates an ingest provider backed by the given store.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// IngestWellness stores one daily wellness reading. Re-sending the same day
// is a no-op, which keeps the sync CLI safe to re-run.
func (p *Provider) IngestWellness(ctx context.Context, payload *models.WellnessPayload, userID int) (*Result, error) {
	result := &Result{SnapshotsReceived: 1}

	if payload.TakenAt.IsZero() {
		return result, fmt.Errorf("wellness payload missing taken_at")
	}

	inserted, err := p.db.InsertSnapshot(ctx, userID, payload.Snapshot())
	if err != nil {
		return result, fmt.Errorf("storing snapshot: %w", err)
	}
	if inserted {
		result.SnapshotsInserted = 1
	} else {
		result.SnapshotsSkipped = 1
		result.Message = "snapshot for this timestamp already stored"
	}
	return result, nil
}

// IngestEvents upserts a batch of calendar entries. Entries without an
// external ID or start date are rejected individually; the rest of the batch
// still lands.
func (p *Provider) IngestEvents(ctx context.Context, payload *models.EventsPayload, userID int) (*Result, error) {
	result := &Result{EventsReceived: len(payload.Events)}

	accepted := make([]models.EventPayload, 0, len(payload.Events))
	for _, e := range payload.Events {
		if e.ExternalID == "" || e.StartDate.IsZero() {
			p.log.Warn("rejecting event", "external_id", e.ExternalID, "name", e.Name)
			result.EventsRejected++
			continue
		}
		accepted = append(accepted, e)
	}

	if len(accepted) > 0 {
		n, err := p.db.UpsertEvents(ctx, userID, accepted)
		if err != nil {
			return result, fmt.Errorf("storing events: %w", err)
		}
		result.EventsUpserted = n
	}

	if result.EventsRejected > 0 {
		result.Message = fmt.Sprintf("%d events rejected: missing external_id or start_date", result.EventsRejected)
	}
	return result, nil
}

// IngestActivity upserts a batch of daily activity summaries. A re-sent day
// overwrites the stored one; providers revise totals as late data arrives.
func (p *Provider) IngestActivity(ctx context.Context, payload *models.ActivityPayload, userID int) (*Result, error) {
	result := &Result{DaysReceived: len(payload.Days)}

	days := make([]models.ActivityDayPayload, 0, len(payload.Days))
	for _, d := range payload.Days {
		if d.Date.IsZero() {
			p.log.Warn("rejecting activity day without date")
			continue
		}
		days = append(days, d)
	}

	if len(days) > 0 {
		n, err := p.db.UpsertActivityDays(ctx, userID, days)
		if err != nil {
			return result, fmt.Errorf("storing activity days: %w", err)
		}
		result.DaysUpserted = n
	}
	return result, nil
}
