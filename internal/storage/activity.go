package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/ironquest/internal/models"
)

// UpsertActivityDays batch-inserts daily activity summaries, replacing any
// existing row for the same day so a re-sync corrects partial-day totals.
func (db *DB) UpsertActivityDays(ctx context.Context, userID int, days []models.ActivityDayPayload) (int64, error) {
	if len(days) == 0 {
		return 0, nil
	}

	query := `INSERT INTO activity_days (user_id, date, cardio_minutes, training_load)
VALUES `
	args := make([]any, 0, len(days)*4)
	valueStrings := make([]string, 0, len(days))

	for i, d := range days {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, userID, d.Date.Time, d.CardioMinutes, d.TrainingLoad)
	}

	query += strings.Join(valueStrings, ",") +
		` ON CONFLICT (user_id, date) DO UPDATE
		  SET cardio_minutes = EXCLUDED.cardio_minutes, training_load = EXCLUDED.training_load`

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upserting activity days: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CardioMinutesSince sums cardio volume from the given date, feeding the
// endurance balance index.
func (db *DB) CardioMinutesSince(ctx context.Context, userID int, since time.Time) (float64, error) {
	var minutes float64
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cardio_minutes), 0)
		 FROM activity_days
		 WHERE user_id = $1 AND date >= $2`,
		userID, since).Scan(&minutes)
	if err != nil {
		return 0, fmt.Errorf("querying cardio minutes: %w", err)
	}
	return minutes, nil
}
