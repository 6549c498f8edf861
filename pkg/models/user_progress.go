package models

import (
	"sort"
	"time"
)

const (
	// XPPerLevel is the amount of XP needed to advance one level
	XPPerLevel = 100
	// DefaultDailyGoal is the daily XP target before onboarding sets one
	DefaultDailyGoal = 20
)

// UserProgress tracks a learner's XP, level, streak and completed lessons
type UserProgress struct {
	CurrentLevel      int        `json:"current_level"`
	TotalXP           int        `json:"total_xp"`
	Streak            int        `json:"streak"`
	LastCompletedDate *time.Time `json:"last_completed_date"`
	DailyXP           int        `json:"daily_xp"`
	DailyGoal         int        `json:"daily_goal"`
	CompletedLessons  LessonSet  `json:"completed_lessons"`
}

// NewUserProgress returns the progress of a learner who has not started yet
func NewUserProgress() UserProgress {
	return UserProgress{
		CurrentLevel:     1,
		DailyGoal:        DefaultDailyGoal,
		CompletedLessons: LessonSet{},
	}
}

// LevelForXP derives the level reached with the given amount of XP
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// DailyGoalReached reports whether today's XP meets the daily target
func (p UserProgress) DailyGoalReached() bool {
	return p.DailyXP >= p.DailyGoal
}

// Clone returns a copy that shares no mutable state with p
func (p UserProgress) Clone() UserProgress {
	c := p
	if p.LastCompletedDate != nil {
		t := *p.LastCompletedDate
		c.LastCompletedDate = &t
	}
	c.CompletedLessons = make(LessonSet, len(p.CompletedLessons))
	for id := range p.CompletedLessons {
		c.CompletedLessons[id] = struct{}{}
	}
	return c
}

// LessonSet is an unordered set of lesson IDs
type LessonSet map[string]struct{}

// Add inserts id into the set; adding an existing id is a no-op
func (s LessonSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set
func (s LessonSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of lessons in the set
func (s LessonSet) Len() int {
	return len(s)
}

// IDs returns the set members sorted
func (s LessonSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
