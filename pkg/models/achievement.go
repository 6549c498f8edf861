package models

import "time"

// Achievement is a badge that unlocks once when its condition is met
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	IsUnlocked  bool       `json:"is_unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Clone returns a copy that shares no mutable state with a
func (a Achievement) Clone() Achievement {
	c := a
	if a.UnlockedAt != nil {
		t := *a.UnlockedAt
		c.UnlockedAt = &t
	}
	return c
}

// OnboardingLevel is the self-reported level chosen during onboarding
type OnboardingLevel string

const (
	LevelBeginner     OnboardingLevel = "beginner"
	LevelIntermediate OnboardingLevel = "intermediate"
	LevelAdvanced     OnboardingLevel = "advanced"
)

// Valid reports whether l is a known onboarding level
func (l OnboardingLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}
