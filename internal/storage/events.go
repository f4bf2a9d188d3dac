package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/ironquest/internal/models"
)

// UpsertEvents batch-inserts calendar events keyed by the provider's external
// id. Returns the number actually inserted (duplicates updated in place so a
// re-sync picks up date changes).
func (db *DB) UpsertEvents(ctx context.Context, userID int, events []models.EventPayload) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	query := `INSERT INTO training_events (external_id, user_id, start_date, name, category, type)
VALUES `
	args := make([]any, 0, len(events)*6)
	valueStrings := make([]string, 0, len(events))

	for i, ev := range events {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args, ev.ExternalID, userID, ev.StartDate.Time, ev.Name, ev.Category, ev.Type)
	}

	query += strings.Join(valueStrings, ",") +
		` ON CONFLICT (external_id, user_id) DO UPDATE
		  SET start_date = EXCLUDED.start_date, name = EXCLUDED.name,
		      category = EXCLUDED.category, type = EXCLUDED.type`

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upserting events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryEvents retrieves calendar events whose start date falls in the range.
// The recommendation cycle only needs roughly [-7, +14] days around now.
func (db *DB) QueryEvents(ctx context.Context, start, end time.Time, userID int) ([]models.TrainingEvent, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, start_date, name, category, type
		 FROM training_events
		 WHERE start_date >= $1 AND start_date < $2 AND user_id = $3
		 ORDER BY start_date ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingEvent
	for rows.Next() {
		var ev models.TrainingEvent
		var typ *string
		if err := rows.Scan(&ev.ID, &ev.StartDate, &ev.Name, &ev.Category, &typ); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if typ != nil {
			ev.Type = *typ
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}
