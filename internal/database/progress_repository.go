package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/pewma/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ProgressRepository handles database operations for user progress
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns the progress row of a user, or nil if the user has none
func (r *ProgressRepository) Get(ctx context.Context, userID string) (*models.ProgressRecord, error) {
	query := r.db.Rebind(`
		SELECT user_id, current_level, total_xp, streak, last_completed_date, daily_goal, daily_xp
		FROM user_progress
		WHERE user_id = ?
	`)

	var rec models.ProgressRecord
	err := r.db.GetContext(ctx, &rec, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user progress: %w", err)
	}
	return &rec, nil
}

// Upsert inserts the progress row or replaces the existing one
func (r *ProgressRepository) Upsert(ctx context.Context, rec models.ProgressRecord) error {
	query := `
		INSERT INTO user_progress (
			user_id, current_level, total_xp, streak, last_completed_date, daily_goal, daily_xp
		) VALUES (
			:user_id, :current_level, :total_xp, :streak, :last_completed_date, :daily_goal, :daily_xp
		)
		ON CONFLICT (user_id) DO UPDATE SET
			current_level = excluded.current_level,
			total_xp = excluded.total_xp,
			streak = excluded.streak,
			last_completed_date = excluded.last_completed_date,
			daily_goal = excluded.daily_goal,
			daily_xp = excluded.daily_xp
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("upsert user progress: %w", err)
	}
	return nil
}

// DeleteByUser removes the progress row of a user
func (r *ProgressRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM user_progress WHERE user_id = ?"), userID); err != nil {
		return fmt.Errorf("delete user progress: %w", err)
	}
	return nil
}
