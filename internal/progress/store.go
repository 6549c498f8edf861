package progress

import (
	"context"

	"github.com/example/pewma/pkg/models"
)

// Store is the remote mirror of a learner's progress. It holds four record
// categories keyed by user ID. Get methods return nil without an error when
// the user has no row.
type Store interface {
	GetProgress(ctx context.Context, userID string) (*models.ProgressRecord, error)
	SaveProgress(ctx context.Context, rec models.ProgressRecord) error
	DeleteProgress(ctx context.Context, userID string) error

	ListLessonStates(ctx context.Context, userID string) ([]models.LessonStateRecord, error)
	SaveLessonState(ctx context.Context, rec models.LessonStateRecord) error
	DeleteLessonStates(ctx context.Context, userID string) error

	ListAchievementStates(ctx context.Context, userID string) ([]models.AchievementStateRecord, error)
	SaveAchievementState(ctx context.Context, rec models.AchievementStateRecord) error
	DeleteAchievementStates(ctx context.Context, userID string) error

	GetOnboarding(ctx context.Context, userID string) (*models.OnboardingRecord, error)
	SaveOnboarding(ctx context.Context, rec models.OnboardingRecord) error
	DeleteOnboarding(ctx context.Context, userID string) error
}
