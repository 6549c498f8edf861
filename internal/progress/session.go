// Package progress keeps a learner's XP, streak, lessons and achievements for
// the length of an authenticated session and mirrors every change to a Store.
//
// The in-memory state is authoritative. Mutations are applied locally first and
// the matching remote writes are then issued in the background; a failed write
// is logged and never rolls back or blocks local state.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/pewma/internal/catalog"
	"github.com/example/pewma/pkg/models"
)

var (
	ErrInvalidDailyGoal = errors.New("daily goal must be positive")
	ErrInvalidLevel     = errors.New("unknown onboarding level")
)

// Session owns the progress, lessons and achievements of one user
type Session struct {
	userID      string
	store       Store
	catalog     *catalog.Catalog
	now         func() time.Time
	loc         *time.Location
	log         *slog.Logger
	rules       map[string]Rule
	defaultGoal int

	mu           sync.Mutex
	progress     models.UserProgress
	lessons      []models.Lesson
	achievements []models.Achievement
	onboarded    bool
	loading      bool
	closed       bool

	// pending counts background writes; idle is signalled on s.mu when it drops to zero
	pending int
	idle    *sync.Cond
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLocation sets the time zone used to decide calendar days
func WithLocation(loc *time.Location) Option {
	return func(s *Session) { s.loc = loc }
}

// WithLogger sets the logger for remote write failures
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithRules replaces the achievement unlock rules
func WithRules(rules map[string]Rule) Option {
	return func(s *Session) { s.rules = rules }
}

// WithDefaultDailyGoal sets the daily goal of a fresh or reset learner
func WithDefaultDailyGoal(goal int) Option {
	return func(s *Session) {
		if goal > 0 {
			s.defaultGoal = goal
		}
	}
}

// NewSession creates a session holding catalog defaults. It stays in the
// loading state until Load is called.
func NewSession(userID string, store Store, cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		userID:      userID,
		store:       store,
		catalog:     cat,
		now:         time.Now,
		loc:         time.Local,
		log:         slog.Default(),
		rules:       DefaultRules(),
		defaultGoal: models.DefaultDailyGoal,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("user_id", userID)
	s.idle = sync.NewCond(&s.mu)

	s.resetLocked()
	s.loading = true
	return s
}

// UserID returns the owner of the session
func (s *Session) UserID() string {
	return s.userID
}

// Load replaces local state with catalog defaults overlaid by the user's
// persisted records, then corrects a streak that went stale while the
// learner was away. Read failures are logged and leave the defaults in place.
func (s *Session) Load(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rec, err := s.store.GetProgress(ctx, s.userID)
	if err != nil {
		s.log.Error("load progress", "error", err)
		rec = nil
	}

	var lessonStates []models.LessonStateRecord
	if rec != nil {
		lessonStates, err = s.store.ListLessonStates(ctx, s.userID)
		if err != nil {
			s.log.Error("load lesson states", "error", err)
		}
	}

	onboarding, err := s.store.GetOnboarding(ctx, s.userID)
	if err != nil {
		s.log.Error("load onboarding", "error", err)
		onboarding = nil
	}

	achievementStates, err := s.store.ListAchievementStates(ctx, s.userID)
	if err != nil {
		s.log.Error("load achievement states", "error", err)
	}

	s.mu.Lock()
	s.resetLocked()
	if rec != nil {
		s.applyProgressRecord(*rec)
		s.applyLessonStates(lessonStates)
	}
	if onboarding != nil {
		s.onboarded = true
		s.progress.DailyGoal = onboarding.DailyGoal
	}
	s.applyAchievementStates(achievementStates)
	s.mu.Unlock()

	if rec != nil {
		s.RolloverDay(ctx)
	}
}

// CompleteLesson records a finished lesson attempt: it moves the streak and
// daily XP across day boundaries, adds XP, re-derives the level, marks the
// lesson completed, unlocks the lessons of the new level and the next one,
// and unlocks achievements. It returns the achievements unlocked by this call.
// An unknown lessonID still counts towards XP and streak.
func (s *Session) CompleteLesson(ctx context.Context, lessonID string, earnedXP int, isPerfect bool) []models.Achievement {
	if earnedXP < 0 {
		earnedXP = 0
	}

	s.mu.Lock()
	now := s.now()
	p := s.progress

	switch relateDay(p.LastCompletedDate, now, s.loc) {
	case sameDay:
		p.DailyXP += earnedXP
	case previousDay, noHistory:
		p.Streak++
		p.DailyXP = earnedXP
	default:
		p.Streak = 1
		p.DailyXP = earnedXP
	}

	p.TotalXP += earnedXP
	p.CurrentLevel = models.LevelForXP(p.TotalXP)
	completedAt := now
	p.LastCompletedDate = &completedAt
	p.CompletedLessons.Add(lessonID)
	s.progress = p

	var changed []models.LessonStateRecord
	for i := range s.lessons {
		l := &s.lessons[i]
		if l.ID == lessonID {
			at := now
			l.IsCompleted = true
			l.CompletedAt = &at
			changed = append(changed, s.lessonRecord(*l))
			continue
		}
		if l.IsLocked && (l.Level == p.CurrentLevel || l.Level == p.CurrentLevel+1) {
			l.IsLocked = false
			changed = append(changed, s.lessonRecord(*l))
		}
	}

	progressRec := s.progressRecord()
	unlocked := s.checkAndUnlockAchievements(p.Clone(), isPerfect, now)
	s.mu.Unlock()

	s.goWrite(ctx, "progress", s.userID, func(ctx context.Context) error {
		err := s.store.SaveProgress(ctx, progressRec)
		for _, rec := range changed {
			rec := rec
			s.goFollowUp(ctx, "lesson", rec.LessonID, func(ctx context.Context) error {
				return s.store.SaveLessonState(ctx, rec)
			})
		}
		return err
	})

	for _, a := range unlocked {
		rec := models.AchievementStateRecord{
			UserID:        s.userID,
			AchievementID: a.ID,
			IsUnlocked:    true,
			UnlockedAt:    a.UnlockedAt,
		}
		s.goWrite(ctx, "achievement", a.ID, func(ctx context.Context) error {
			return s.store.SaveAchievementState(ctx, rec)
		})
	}

	return unlocked
}

// CompleteOnboarding stores the onboarding answers. Unlike lesson completion
// it waits for the remote write: on failure nothing changes locally and the
// error is returned so the learner can retry.
func (s *Session) CompleteOnboarding(ctx context.Context, level models.OnboardingLevel, dailyGoal int) error {
	if !level.Valid() {
		return ErrInvalidLevel
	}
	if dailyGoal <= 0 {
		return ErrInvalidDailyGoal
	}

	err := s.store.SaveOnboarding(ctx, models.OnboardingRecord{
		UserID:    s.userID,
		Level:     level,
		DailyGoal: dailyGoal,
	})
	if err != nil {
		s.log.Error("save onboarding", "error", err)
		return fmt.Errorf("save onboarding: %w", err)
	}

	s.mu.Lock()
	s.progress.DailyGoal = dailyGoal
	rec := s.progressRecord()
	s.mu.Unlock()

	if err := s.store.SaveProgress(ctx, rec); err != nil {
		s.log.Error("save progress after onboarding", "error", err)
	}

	s.mu.Lock()
	s.onboarded = true
	s.mu.Unlock()

	s.log.Info("onboarding completed", "level", level, "daily_goal", dailyGoal)
	return nil
}

// ResetProgress deletes every remote record of the user and returns the
// session to catalog defaults. Writes already in flight finish before the
// deletes so they cannot bring rows back. Deletion failures are logged; the
// local reset happens regardless, so rows that failed to delete reappear on
// next load.
func (s *Session) ResetProgress(ctx context.Context) {
	s.Wait()

	deletions := []struct {
		category string
		del      func(context.Context, string) error
	}{
		{"progress", s.store.DeleteProgress},
		{"lesson", s.store.DeleteLessonStates},
		{"achievement", s.store.DeleteAchievementStates},
		{"onboarding", s.store.DeleteOnboarding},
	}
	for _, d := range deletions {
		if err := d.del(ctx, s.userID); err != nil {
			s.log.Error("delete remote records", "category", d.category, "error", err)
		}
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.log.Info("progress reset")
}

// RolloverDay corrects progress that went stale across day boundaries with no
// lesson completed: when the last completion is older than yesterday the
// streak and daily XP drop to zero. A learner with no completion yet gets the
// daily XP cleared. It reports whether anything changed and was persisted.
func (s *Session) RolloverDay(ctx context.Context) bool {
	s.mu.Lock()
	p := &s.progress
	switch relateDay(p.LastCompletedDate, s.now(), s.loc) {
	case sameDay, previousDay:
		s.mu.Unlock()
		return false
	case noHistory:
		if p.DailyXP == 0 {
			s.mu.Unlock()
			return false
		}
		p.DailyXP = 0
	default:
		if p.Streak == 0 && p.DailyXP == 0 {
			s.mu.Unlock()
			return false
		}
		p.Streak = 0
		p.DailyXP = 0
	}
	rec := s.progressRecord()
	s.mu.Unlock()

	s.goWrite(ctx, "progress", s.userID, func(ctx context.Context) error {
		return s.store.SaveProgress(ctx, rec)
	})
	return true
}

// Progress returns a snapshot of the learner's progress
func (s *Session) Progress() models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Clone()
}

// TodayXP returns the XP earned today; DailyXP from an earlier day counts as zero
func (s *Session) TodayXP() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if relateDay(s.progress.LastCompletedDate, s.now(), s.loc) != sameDay {
		return 0
	}
	return s.progress.DailyXP
}

// Lessons returns a snapshot of all lessons in course order
func (s *Session) Lessons() []models.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lesson, len(s.lessons))
	for i, l := range s.lessons {
		out[i] = l.Clone()
	}
	return out
}

// Lesson returns a snapshot of a single lesson
func (s *Session) Lesson(id string) (models.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lessons {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return models.Lesson{}, false
}

// Achievements returns a snapshot of all achievements in catalog order
func (s *Session) Achievements() []models.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Achievement, len(s.achievements))
	for i, a := range s.achievements {
		out[i] = a.Clone()
	}
	return out
}

// HasCompletedOnboarding reports whether onboarding is done
func (s *Session) HasCompletedOnboarding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarded
}

// Loading reports whether the persisted records are still being loaded
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Wait blocks until every background write issued so far has finished
func (s *Session) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending > 0 {
		s.idle.Wait()
	}
}

// Close drains pending writes. Later mutations still change local state but
// no longer reach the store.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Wait()
}

// goWrite runs a remote write in the background, detached from ctx
// cancellation. Writes issued after Close are dropped.
func (s *Session) goWrite(ctx context.Context, category, key string, write func(context.Context) error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Debug("remote write dropped, session closed", "category", category, "key", key)
		return
	}
	s.pending++
	s.mu.Unlock()

	go s.runWrite(context.WithoutCancel(ctx), category, key, write)
}

// goFollowUp issues a write from inside a running write. The parent is still
// pending, so Close waits for it even if the session closed meanwhile.
func (s *Session) goFollowUp(ctx context.Context, category, key string, write func(context.Context) error) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	go s.runWrite(ctx, category, key, write)
}

func (s *Session) runWrite(ctx context.Context, category, key string, write func(context.Context) error) {
	defer func() {
		s.mu.Lock()
		s.pending--
		if s.pending == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
	}()

	if err := write(ctx); err != nil {
		s.log.Error("remote write failed", "category", category, "key", key, "error", err)
		return
	}
	s.log.Debug("remote write done", "category", category, "key", key)
}

func (s *Session) resetLocked() {
	s.progress = models.NewUserProgress()
	s.progress.DailyGoal = s.defaultGoal
	s.lessons = s.catalog.Lessons()
	s.achievements = s.catalog.Achievements()
	s.onboarded = false
}

func (s *Session) applyProgressRecord(rec models.ProgressRecord) {
	s.progress.TotalXP = rec.TotalXP
	s.progress.CurrentLevel = models.LevelForXP(rec.TotalXP)
	s.progress.Streak = rec.Streak
	s.progress.LastCompletedDate = rec.LastCompletedDate
	s.progress.DailyXP = rec.DailyXP
	if rec.DailyGoal > 0 {
		s.progress.DailyGoal = rec.DailyGoal
	}
}

func (s *Session) applyLessonStates(states []models.LessonStateRecord) {
	byID := make(map[string]models.LessonStateRecord, len(states))
	for _, st := range states {
		byID[st.LessonID] = st
		if st.IsCompleted {
			s.progress.CompletedLessons.Add(st.LessonID)
		}
	}

	for i := range s.lessons {
		st, ok := byID[s.lessons[i].ID]
		if !ok {
			continue
		}
		s.lessons[i].IsCompleted = st.IsCompleted
		s.lessons[i].IsLocked = st.IsLocked
		s.lessons[i].CompletedAt = st.CompletedAt
	}
}

func (s *Session) applyAchievementStates(states []models.AchievementStateRecord) {
	byID := make(map[string]models.AchievementStateRecord, len(states))
	for _, st := range states {
		byID[st.AchievementID] = st
	}

	for i := range s.achievements {
		st, ok := byID[s.achievements[i].ID]
		if !ok {
			continue
		}
		s.achievements[i].IsUnlocked = st.IsUnlocked
		s.achievements[i].UnlockedAt = st.UnlockedAt
	}
}

func (s *Session) progressRecord() models.ProgressRecord {
	rec := models.ProgressRecord{
		UserID:       s.userID,
		CurrentLevel: s.progress.CurrentLevel,
		TotalXP:      s.progress.TotalXP,
		Streak:       s.progress.Streak,
		DailyGoal:    s.progress.DailyGoal,
		DailyXP:      s.progress.DailyXP,
	}
	if s.progress.LastCompletedDate != nil {
		t := *s.progress.LastCompletedDate
		rec.LastCompletedDate = &t
	}
	return rec
}

func (s *Session) lessonRecord(l models.Lesson) models.LessonStateRecord {
	rec := models.LessonStateRecord{
		UserID:      s.userID,
		LessonID:    l.ID,
		IsCompleted: l.IsCompleted,
		IsLocked:    l.IsLocked,
	}
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		rec.CompletedAt = &t
	}
	return rec
}
