package database

import (
	"context"

	"github.com/example/pewma/pkg/models"
	"github.com/jmoiron/sqlx"
)

// Store groups the per-user record repositories behind a single value
type Store struct {
	Progress     *ProgressRepository
	Lessons      *LessonStateRepository
	Achievements *AchievementStateRepository
	Onboarding   *OnboardingRepository
	Users        *UserRepository
}

// NewStore creates all repositories on top of db
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		Progress:     NewProgressRepository(db),
		Lessons:      NewLessonStateRepository(db),
		Achievements: NewAchievementStateRepository(db),
		Onboarding:   NewOnboardingRepository(db),
		Users:        NewUserRepository(db),
	}
}

func (s *Store) GetProgress(ctx context.Context, userID string) (*models.ProgressRecord, error) {
	return s.Progress.Get(ctx, userID)
}

func (s *Store) SaveProgress(ctx context.Context, rec models.ProgressRecord) error {
	return s.Progress.Upsert(ctx, rec)
}

func (s *Store) DeleteProgress(ctx context.Context, userID string) error {
	return s.Progress.DeleteByUser(ctx, userID)
}

func (s *Store) ListLessonStates(ctx context.Context, userID string) ([]models.LessonStateRecord, error) {
	return s.Lessons.ListByUser(ctx, userID)
}

func (s *Store) SaveLessonState(ctx context.Context, rec models.LessonStateRecord) error {
	return s.Lessons.Upsert(ctx, rec)
}

func (s *Store) DeleteLessonStates(ctx context.Context, userID string) error {
	return s.Lessons.DeleteByUser(ctx, userID)
}

func (s *Store) ListAchievementStates(ctx context.Context, userID string) ([]models.AchievementStateRecord, error) {
	return s.Achievements.ListByUser(ctx, userID)
}

func (s *Store) SaveAchievementState(ctx context.Context, rec models.AchievementStateRecord) error {
	return s.Achievements.Upsert(ctx, rec)
}

func (s *Store) DeleteAchievementStates(ctx context.Context, userID string) error {
	return s.Achievements.DeleteByUser(ctx, userID)
}

func (s *Store) GetOnboarding(ctx context.Context, userID string) (*models.OnboardingRecord, error) {
	return s.Onboarding.Get(ctx, userID)
}

func (s *Store) SaveOnboarding(ctx context.Context, rec models.OnboardingRecord) error {
	return s.Onboarding.Upsert(ctx, rec)
}

func (s *Store) DeleteOnboarding(ctx context.Context, userID string) error {
	return s.Onboarding.DeleteByUser(ctx, userID)
}
