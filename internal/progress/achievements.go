package progress

import (
	"time"

	"github.com/example/pewma/internal/catalog"
	"github.com/example/pewma/pkg/models"
)

// Rule decides from the post-completion progress whether an achievement unlocks
type Rule func(p models.UserProgress, isPerfect bool) bool

// DefaultRules returns the unlock rule of every built-in achievement
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		catalog.AchievementFirstLesson: func(p models.UserProgress, _ bool) bool {
			return p.CompletedLessons.Len() >= 1
		},
		catalog.AchievementStreak3: func(p models.UserProgress, _ bool) bool {
			return p.Streak >= 3
		},
		catalog.AchievementStreak7: func(p models.UserProgress, _ bool) bool {
			return p.Streak >= 7
		},
		catalog.AchievementXP100: func(p models.UserProgress, _ bool) bool {
			return p.TotalXP >= 100
		},
		catalog.AchievementXP500: func(p models.UserProgress, _ bool) bool {
			return p.TotalXP >= 500
		},
		catalog.AchievementLevel2: func(p models.UserProgress, _ bool) bool {
			return p.CurrentLevel >= 2
		},
		catalog.AchievementPerfectLesson: func(_ models.UserProgress, isPerfect bool) bool {
			return isPerfect
		},
	}
}

// checkAndUnlockAchievements unlocks every locked achievement whose rule holds.
// Already unlocked achievements keep their original timestamp. Callers hold s.mu.
func (s *Session) checkAndUnlockAchievements(p models.UserProgress, isPerfect bool, now time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for i := range s.achievements {
		a := &s.achievements[i]
		if a.IsUnlocked {
			continue
		}

		rule, ok := s.rules[a.ID]
		if !ok || !rule(p, isPerfect) {
			continue
		}

		at := now
		a.IsUnlocked = true
		a.UnlockedAt = &at
		unlocked = append(unlocked, a.Clone())
	}
	return unlocked
}
