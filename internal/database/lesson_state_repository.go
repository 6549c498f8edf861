package database

import (
	"context"
	"fmt"

	"github.com/example/pewma/pkg/models"
	"github.com/jmoiron/sqlx"
)

// LessonStateRepository handles database operations for per-user lesson flags
type LessonStateRepository struct {
	db *sqlx.DB
}

// NewLessonStateRepository creates a new repository instance
func NewLessonStateRepository(db *sqlx.DB) *LessonStateRepository {
	return &LessonStateRepository{db: db}
}

// ListByUser returns every lesson row stored for a user
func (r *LessonStateRepository) ListByUser(ctx context.Context, userID string) ([]models.LessonStateRecord, error) {
	query := r.db.Rebind(`
		SELECT user_id, lesson_id, is_completed, is_locked, completed_at
		FROM user_lessons
		WHERE user_id = ?
		ORDER BY lesson_id
	`)

	var recs []models.LessonStateRecord
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("list user lessons: %w", err)
	}
	return recs, nil
}

// Upsert inserts the lesson row or replaces the existing one
func (r *LessonStateRepository) Upsert(ctx context.Context, rec models.LessonStateRecord) error {
	query := `
		INSERT INTO user_lessons (user_id, lesson_id, is_completed, is_locked, completed_at)
		VALUES (:user_id, :lesson_id, :is_completed, :is_locked, :completed_at)
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			is_completed = excluded.is_completed,
			is_locked = excluded.is_locked,
			completed_at = excluded.completed_at
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("upsert user lesson %s: %w", rec.LessonID, err)
	}
	return nil
}

// DeleteByUser removes all lesson rows of a user
func (r *LessonStateRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM user_lessons WHERE user_id = ?"), userID); err != nil {
		return fmt.Errorf("delete user lessons: %w", err)
	}
	return nil
}
