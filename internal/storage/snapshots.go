package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/ironquest/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertSnapshot stores one wellness reading. Snapshots are immutable once
// fetched; a duplicate timestamp is skipped rather than overwritten.
func (db *DB) InsertSnapshot(ctx context.Context, userID int, s models.WellnessSnapshot) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO wellness_snapshots
		   (user_id, taken_at, sleep_score, body_battery, hrv_ms, resting_hr, vo2max, ctl, atl, tsb)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT DO NOTHING`,
		userID, s.TakenAt, s.SleepScore, s.BodyBattery, s.HRVMs, s.RestingHR,
		s.VO2Max, s.CTL, s.ATL, s.TSB)
	if err != nil {
		return false, fmt.Errorf("inserting snapshot: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LatestSnapshot returns the most recent wellness reading, or nil when none
// has ever been synced. Callers substitute the simulated fallback in that
// case.
func (db *DB) LatestSnapshot(ctx context.Context, userID int) (*models.WellnessSnapshot, error) {
	var s models.WellnessSnapshot
	err := db.Pool.QueryRow(ctx,
		`SELECT taken_at, sleep_score, body_battery, hrv_ms, resting_hr, vo2max, ctl, atl, tsb
		 FROM wellness_snapshots
		 WHERE user_id = $1
		 ORDER BY taken_at DESC
		 LIMIT 1`,
		userID).Scan(&s.TakenAt, &s.SleepScore, &s.BodyBattery, &s.HRVMs,
		&s.RestingHR, &s.VO2Max, &s.CTL, &s.ATL, &s.TSB)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	return &s, nil
}

// QuerySnapshots retrieves wellness readings in a time range, oldest first.
func (db *DB) QuerySnapshots(ctx context.Context, start, end time.Time, userID int) ([]models.WellnessSnapshot, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT taken_at, sleep_score, body_battery, hrv_ms, resting_hr, vo2max, ctl, atl, tsb
		 FROM wellness_snapshots
		 WHERE taken_at >= $1 AND taken_at < $2 AND user_id = $3
		 ORDER BY taken_at ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var result []models.WellnessSnapshot
	for rows.Next() {
		var s models.WellnessSnapshot
		if err := rows.Scan(&s.TakenAt, &s.SleepScore, &s.BodyBattery, &s.HRVMs,
			&s.RestingHR, &s.VO2Max, &s.CTL, &s.ATL, &s.TSB); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
