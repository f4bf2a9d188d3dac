package mcp

import (
	"context"
	"time"

	"github.com/claude/ironquest/internal/models"
	"github.com/claude/ironquest/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. The tools run
// the engine themselves over fetched data, so local and remote mode produce
// identical answers.
type DataSource interface {
	LatestSnapshot(ctx context.Context, userID int) (*models.WellnessSnapshot, error)
	QueryLog(ctx context.Context, start, end time.Time, userID int) ([]models.ExerciseLogEntry, error)
	QueryEvents(ctx context.Context, start, end time.Time, userID int) ([]models.TrainingEvent, error)
	CardioMinutesSince(ctx context.Context, userID int, since time.Time) (float64, error)
	ListSkillNodes(ctx context.Context, userID int) ([]models.SkillNode, error)
	GetExerciseBest(ctx context.Context, userID int, exerciseID string) (float64, error)
	GetSessionBest(ctx context.Context, userID int, exerciseID string, since time.Time) (float64, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
