package quiz

import (
	"errors"
	"strings"

	"github.com/example/pewma/pkg/models"
	"golang.org/x/text/cases"
)

var (
	ErrNoExercises = errors.New("lesson has no exercises")
	ErrFinished    = errors.New("attempt already finished")
)

// Attempt walks through the exercises of one lesson in order and counts mistakes
type Attempt struct {
	lesson   models.Lesson
	index    int
	mistakes int
}

// Feedback describes the outcome of a single answer
type Feedback struct {
	Correct       bool
	CorrectAnswer string
	Translation   string
	Finished      bool
}

// Result summarises a finished attempt
type Result struct {
	LessonID  string
	EarnedXP  int
	IsPerfect bool
	Mistakes  int
	Total     int
}

// NewAttempt starts a lesson attempt at its first exercise
func NewAttempt(lesson models.Lesson) (*Attempt, error) {
	if len(lesson.Exercises) == 0 {
		return nil, ErrNoExercises
	}
	return &Attempt{lesson: lesson.Clone()}, nil
}

// Lesson returns the lesson being attempted
func (a *Attempt) Lesson() models.Lesson {
	return a.lesson
}

// Current returns the exercise waiting for an answer
func (a *Attempt) Current() (models.Exercise, bool) {
	if a.Done() {
		return models.Exercise{}, false
	}
	return a.lesson.Exercises[a.index], true
}

// Position returns the 1-based index of the current exercise and the total
func (a *Attempt) Position() (int, int) {
	return a.index + 1, len(a.lesson.Exercises)
}

// Done reports whether every exercise has been answered
func (a *Attempt) Done() bool {
	return a.index >= len(a.lesson.Exercises)
}

// Check grades answer against the current exercise and moves on to the next one
func (a *Attempt) Check(answer string) (Feedback, error) {
	ex, ok := a.Current()
	if !ok {
		return Feedback{}, ErrFinished
	}

	correct := Matches(ex, answer)
	if !correct {
		a.mistakes++
	}
	a.index++

	return Feedback{
		Correct:       correct,
		CorrectAnswer: ex.CorrectAnswer,
		Translation:   ex.Translation,
		Finished:      a.Done(),
	}, nil
}

// Result returns the reward of the attempt. XP is the lesson reward regardless of mistakes.
func (a *Attempt) Result() Result {
	return Result{
		LessonID:  a.lesson.ID,
		EarnedXP:  a.lesson.XPReward,
		IsPerfect: a.mistakes == 0,
		Mistakes:  a.mistakes,
		Total:     len(a.lesson.Exercises),
	}
}

// Matches compares an answer with the exercise solution, ignoring case and surrounding spaces
func Matches(ex models.Exercise, answer string) bool {
	if ex.Type.TypedAnswer() {
		answer = strings.TrimSpace(answer)
	}
	fold := cases.Fold()
	return fold.String(answer) == fold.String(ex.CorrectAnswer)
}
