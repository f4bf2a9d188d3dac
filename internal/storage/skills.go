package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/ironquest/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListSkillNodes returns the skill tree for a user, ordered by id for stable
// output.
func (db *DB) ListSkillNodes(ctx context.Context, userID int) ([]models.SkillNode, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, category, base_cost
		 FROM skill_nodes
		 WHERE user_id = $1
		 ORDER BY id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying skill nodes: %w", err)
	}
	defer rows.Close()

	var result []models.SkillNode
	for rows.Next() {
		var n models.SkillNode
		var category string
		if err := rows.Scan(&n.ID, &n.Name, &category, &n.BaseCost); err != nil {
			return nil, fmt.Errorf("scanning skill node: %w", err)
		}
		n.Category = models.ParseSkillCategory(category)
		result = append(result, n)
	}
	return result, rows.Err()
}

// GetSkillNode fetches one node by id. Returns nil when the node does not
// exist.
func (db *DB) GetSkillNode(ctx context.Context, userID int, id string) (*models.SkillNode, error) {
	var n models.SkillNode
	var category string
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, category, base_cost
		 FROM skill_nodes
		 WHERE user_id = $1 AND id = $2`,
		userID, id).Scan(&n.ID, &n.Name, &category, &n.BaseCost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying skill node: %w", err)
	}
	n.Category = models.ParseSkillCategory(category)
	return &n, nil
}

// UpsertSkillNode creates or updates a node definition. Cost adjustments are
// derived at read time; base_cost is the only stored price.
func (db *DB) UpsertSkillNode(ctx context.Context, userID int, n models.SkillNode) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO skill_nodes (id, user_id, name, category, base_cost)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id, user_id) DO UPDATE
		 SET name = EXCLUDED.name, category = EXCLUDED.category, base_cost = EXCLUDED.base_cost`,
		n.ID, userID, n.Name, string(n.Category), n.BaseCost)
	if err != nil {
		return fmt.Errorf("upserting skill node: %w", err)
	}
	return nil
}
