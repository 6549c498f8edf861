package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/pewma/pkg/models"
	"github.com/jmoiron/sqlx"
)

// OnboardingRepository handles database operations for onboarding answers
type OnboardingRepository struct {
	db *sqlx.DB
}

// NewOnboardingRepository creates a new repository instance
func NewOnboardingRepository(db *sqlx.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

// Get returns the onboarding row of a user, or nil if onboarding never finished
func (r *OnboardingRepository) Get(ctx context.Context, userID string) (*models.OnboardingRecord, error) {
	query := r.db.Rebind("SELECT user_id, level, daily_goal FROM onboarding WHERE user_id = ?")

	var rec models.OnboardingRecord
	err := r.db.GetContext(ctx, &rec, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	return &rec, nil
}

// Upsert inserts the onboarding row or replaces the existing one
func (r *OnboardingRepository) Upsert(ctx context.Context, rec models.OnboardingRecord) error {
	query := `
		INSERT INTO onboarding (user_id, level, daily_goal)
		VALUES (:user_id, :level, :daily_goal)
		ON CONFLICT (user_id) DO UPDATE SET
			level = excluded.level,
			daily_goal = excluded.daily_goal
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("upsert onboarding: %w", err)
	}
	return nil
}

// DeleteByUser removes the onboarding row of a user
func (r *OnboardingRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM onboarding WHERE user_id = ?"), userID); err != nil {
		return fmt.Errorf("delete onboarding: %w", err)
	}
	return nil
}
