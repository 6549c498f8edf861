package progress

import (
	"context"
	"sync"

	"github.com/example/pewma/pkg/models"
)

// mockStore keeps records in memory. A non-nil XxxFunc overrides the
// matching method.
type mockStore struct {
	mu           sync.Mutex
	progress     map[string]models.ProgressRecord
	lessons      map[string]models.LessonStateRecord
	achievements map[string]models.AchievementStateRecord
	onboarding   map[string]models.OnboardingRecord
	saves        []string

	GetProgressFunc     func(ctx context.Context, userID string) (*models.ProgressRecord, error)
	SaveProgressFunc    func(ctx context.Context, rec models.ProgressRecord) error
	SaveOnboardingFunc  func(ctx context.Context, rec models.OnboardingRecord) error
	DeleteProgressFunc  func(ctx context.Context, userID string) error
	SaveLessonStateFunc func(ctx context.Context, rec models.LessonStateRecord) error
}

func newMockStore() *mockStore {
	return &mockStore{
		progress:     map[string]models.ProgressRecord{},
		lessons:      map[string]models.LessonStateRecord{},
		achievements: map[string]models.AchievementStateRecord{},
		onboarding:   map[string]models.OnboardingRecord{},
	}
}

func (m *mockStore) record(category string) {
	m.saves = append(m.saves, category)
}

func (m *mockStore) GetProgress(ctx context.Context, userID string) (*models.ProgressRecord, error) {
	if m.GetProgressFunc != nil {
		return m.GetProgressFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.progress[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *mockStore) SaveProgress(ctx context.Context, rec models.ProgressRecord) error {
	if m.SaveProgressFunc != nil {
		return m.SaveProgressFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("progress")
	m.progress[rec.UserID] = rec
	return nil
}

func (m *mockStore) DeleteProgress(ctx context.Context, userID string) error {
	if m.DeleteProgressFunc != nil {
		return m.DeleteProgressFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.progress, userID)
	return nil
}

func (m *mockStore) ListLessonStates(_ context.Context, userID string) ([]models.LessonStateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LessonStateRecord
	for _, rec := range m.lessons {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStore) SaveLessonState(ctx context.Context, rec models.LessonStateRecord) error {
	if m.SaveLessonStateFunc != nil {
		return m.SaveLessonStateFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("lesson")
	m.lessons[rec.UserID+"/"+rec.LessonID] = rec
	return nil
}

func (m *mockStore) DeleteLessonStates(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, rec := range m.lessons {
		if rec.UserID == userID {
			delete(m.lessons, k)
		}
	}
	return nil
}

func (m *mockStore) ListAchievementStates(_ context.Context, userID string) ([]models.AchievementStateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AchievementStateRecord
	for _, rec := range m.achievements {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStore) SaveAchievementState(_ context.Context, rec models.AchievementStateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("achievement")
	m.achievements[rec.UserID+"/"+rec.AchievementID] = rec
	return nil
}

func (m *mockStore) DeleteAchievementStates(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, rec := range m.achievements {
		if rec.UserID == userID {
			delete(m.achievements, k)
		}
	}
	return nil
}

func (m *mockStore) GetOnboarding(_ context.Context, userID string) (*models.OnboardingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.onboarding[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *mockStore) SaveOnboarding(ctx context.Context, rec models.OnboardingRecord) error {
	if m.SaveOnboardingFunc != nil {
		return m.SaveOnboardingFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("onboarding")
	m.onboarding[rec.UserID] = rec
	return nil
}

func (m *mockStore) DeleteOnboarding(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.onboarding, userID)
	return nil
}
