// Package catalog holds the static lessons and achievements every learner starts from.
package catalog

import "github.com/example/pewma/pkg/models"

// Achievement IDs with a built-in unlock rule
const (
	AchievementFirstLesson   = "first-lesson"
	AchievementStreak3       = "streak-3"
	AchievementStreak7       = "streak-7"
	AchievementXP100         = "xp-100"
	AchievementXP500         = "xp-500"
	AchievementLevel2        = "level-2"
	AchievementPerfectLesson = "perfect-lesson"
)

// Catalog is an immutable set of seed lessons and achievements.
// Every accessor returns fresh copies, so callers may mutate what they get.
type Catalog struct {
	lessons      []models.Lesson
	achievements []models.Achievement
}

// New creates a catalog from the given seeds
func New(lessons []models.Lesson, achievements []models.Achievement) *Catalog {
	c := &Catalog{
		lessons:      make([]models.Lesson, len(lessons)),
		achievements: make([]models.Achievement, len(achievements)),
	}
	for i, l := range lessons {
		c.lessons[i] = l.Clone()
	}
	for i, a := range achievements {
		c.achievements[i] = a.Clone()
	}
	return c
}

// Default returns the built-in Mapudungun course
func Default() *Catalog {
	return New(defaultLessons, defaultAchievements)
}

// Lessons returns the seed lessons in course order
func (c *Catalog) Lessons() []models.Lesson {
	out := make([]models.Lesson, len(c.lessons))
	for i, l := range c.lessons {
		out[i] = l.Clone()
	}
	return out
}

// Achievements returns the seed achievements, all locked
func (c *Catalog) Achievements() []models.Achievement {
	out := make([]models.Achievement, len(c.achievements))
	for i, a := range c.achievements {
		out[i] = a.Clone()
	}
	return out
}

// Lesson looks up a seed lesson by ID
func (c *Catalog) Lesson(id string) (models.Lesson, bool) {
	for _, l := range c.lessons {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return models.Lesson{}, false
}

// WithLessons returns a catalog that keeps c's achievements but uses other lessons
func (c *Catalog) WithLessons(lessons []models.Lesson) *Catalog {
	return New(lessons, c.achievements)
}
