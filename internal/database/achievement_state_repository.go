package database

import (
	"context"
	"fmt"

	"github.com/example/pewma/pkg/models"
	"github.com/jmoiron/sqlx"
)

// AchievementStateRepository handles database operations for unlocked achievements
type AchievementStateRepository struct {
	db *sqlx.DB
}

// NewAchievementStateRepository creates a new repository instance
func NewAchievementStateRepository(db *sqlx.DB) *AchievementStateRepository {
	return &AchievementStateRepository{db: db}
}

// ListByUser returns every achievement row stored for a user
func (r *AchievementStateRepository) ListByUser(ctx context.Context, userID string) ([]models.AchievementStateRecord, error) {
	query := r.db.Rebind(`
		SELECT user_id, achievement_id, is_unlocked, unlocked_at
		FROM user_achievements
		WHERE user_id = ?
		ORDER BY achievement_id
	`)

	var recs []models.AchievementStateRecord
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	return recs, nil
}

// Upsert inserts the achievement row or replaces the existing one
func (r *AchievementStateRepository) Upsert(ctx context.Context, rec models.AchievementStateRecord) error {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id, is_unlocked, unlocked_at)
		VALUES (:user_id, :achievement_id, :is_unlocked, :unlocked_at)
		ON CONFLICT (user_id, achievement_id) DO UPDATE SET
			is_unlocked = excluded.is_unlocked,
			unlocked_at = excluded.unlocked_at
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("upsert user achievement %s: %w", rec.AchievementID, err)
	}
	return nil
}

// DeleteByUser removes all achievement rows of a user
func (r *AchievementStateRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM user_achievements WHERE user_id = ?"), userID); err != nil {
		return fmt.Errorf("delete user achievements: %w", err)
	}
	return nil
}
