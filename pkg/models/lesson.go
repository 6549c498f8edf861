package models

import "time"

// ExerciseType identifies how an exercise is presented and answered
type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple-choice"
	FillIn         ExerciseType = "fill-in"
	Translation    ExerciseType = "translation"
	Listening      ExerciseType = "listening"
	Speaking       ExerciseType = "speaking"
)

// Valid reports whether t is one of the known exercise types
func (t ExerciseType) Valid() bool {
	switch t {
	case MultipleChoice, FillIn, Translation, Listening, Speaking:
		return true
	}
	return false
}

// TypedAnswer reports whether the learner writes the answer instead of picking an option
func (t ExerciseType) TypedAnswer() bool {
	return t == FillIn || t == Translation
}

// Exercise is a single question inside a lesson
type Exercise struct {
	ID            string       `json:"id"`
	Type          ExerciseType `json:"type"`
	Question      string       `json:"question"`
	CorrectAnswer string       `json:"correct_answer"`
	Options       []string     `json:"options,omitempty"`
	Translation   string       `json:"translation,omitempty"`
	AudioURL      string       `json:"audio_url,omitempty"`
}

// Lesson is a catalog lesson plus the learner's lock/completion flags
type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Level       int        `json:"level"`
	XPReward    int        `json:"xp_reward"`
	Exercises   []Exercise `json:"exercises"`
	IsLocked    bool       `json:"is_locked"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Clone returns a deep copy of the lesson
func (l Lesson) Clone() Lesson {
	c := l
	c.Exercises = make([]Exercise, len(l.Exercises))
	for i, e := range l.Exercises {
		c.Exercises[i] = e
		if e.Options != nil {
			c.Exercises[i].Options = append([]string(nil), e.Options...)
		}
	}
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		c.CompletedAt = &t
	}
	return c
}
