package models

import "time"

// ProgressRecord is the persisted form of UserProgress, one row per user
type ProgressRecord struct {
	UserID            string     `db:"user_id"`
	CurrentLevel      int        `db:"current_level"`
	TotalXP           int        `db:"total_xp"`
	Streak            int        `db:"streak"`
	LastCompletedDate *time.Time `db:"last_completed_date"`
	DailyGoal         int        `db:"daily_goal"`
	DailyXP           int        `db:"daily_xp"`
}

// LessonStateRecord holds a user's flags for one lesson
type LessonStateRecord struct {
	UserID      string     `db:"user_id"`
	LessonID    string     `db:"lesson_id"`
	IsCompleted bool       `db:"is_completed"`
	IsLocked    bool       `db:"is_locked"`
	CompletedAt *time.Time `db:"completed_at"`
}

// AchievementStateRecord holds a user's unlock state for one achievement
type AchievementStateRecord struct {
	UserID        string     `db:"user_id"`
	AchievementID string     `db:"achievement_id"`
	IsUnlocked    bool       `db:"is_unlocked"`
	UnlockedAt    *time.Time `db:"unlocked_at"`
}

// OnboardingRecord stores the answers given during onboarding
type OnboardingRecord struct {
	UserID    string          `db:"user_id"`
	Level     OnboardingLevel `db:"level"`
	DailyGoal int             `db:"daily_goal"`
}
