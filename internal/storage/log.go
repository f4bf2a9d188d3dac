package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/ironquest/internal/models"
	"github.com/google/uuid"
)

// AppendLogEntry inserts one completed performance into the append-only
// exercise log. Entries are never updated or deleted.
func (db *DB) AppendLogEntry(ctx context.Context, userID int, e models.ExerciseLogEntry) (uuid.UUID, error) {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercise_log (id, user_id, date, exercise_id, estimated_1rm, rpe, notable)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userID, e.Date, e.ExerciseID, e.Estimated1RM, e.RPE, e.Notable)
	if err != nil {
		return uuid.Nil, fmt.Errorf("appending log entry: %w", err)
	}
	return id, nil
}

// QueryLog retrieves log entries in a time range, ordered by date ascending
// for trend analysis.
func (db *DB) QueryLog(ctx context.Context, start, end time.Time, userID int) ([]models.ExerciseLogEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, exercise_id, estimated_1rm, rpe, notable
		 FROM exercise_log
		 WHERE date >= $1 AND date < $2 AND user_id = $3
		 ORDER BY date ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise log: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseLogEntry
	for rows.Next() {
		var e models.ExerciseLogEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.ExerciseID, &e.Estimated1RM, &e.RPE, &e.Notable); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExerciseBest returns the best-ever e1RM logged for an exercise, or zero
// when the exercise has no history. Zero disables the PR rarity tiers
// downstream rather than erroring.
func (db *DB) GetExerciseBest(ctx context.Context, userID int, exerciseID string) (float64, error) {
	var best float64
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(estimated_1rm), 0)
		 FROM exercise_log
		 WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("querying exercise best: %w", err)
	}
	return best, nil
}

// GetSessionBest returns the best e1RM for an exercise since the given time,
// used as the session-best context when classifying a set mid-workout.
func (db *DB) GetSessionBest(ctx context.Context, userID int, exerciseID string, since time.Time) (float64, error) {
	var best float64
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(estimated_1rm), 0)
		 FROM exercise_log
		 WHERE user_id = $1 AND exercise_id = $2 AND date >= $3`,
		userID, exerciseID, since).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("querying session best: %w", err)
	}
	return best, nil
}
