// Package scheduler runs the periodic jobs of the service: the daily streak
// rollover of every active session and the daily goal reminders.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/pewma/internal/session"
)

const (
	DefaultReminderHour = 18
	DefaultRolloverTime = "00:05"
)

// Notifier delivers daily goal reminders
type Notifier interface {
	SendReminder(chatID int64, todayXP, dailyGoal int) error
}

type sessionSource interface {
	Active() []session.Entry
}

// Config controls when the jobs run
type Config struct {
	Location     *time.Location
	ReminderHour int
	// RolloverTime is the "HH:MM" wall-clock time of the daily rollover
	RolloverTime string
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  sessionSource
	notifier  Notifier
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(sessions sessionSource, notifier Notifier, cfg Config, log *slog.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.RolloverTime == "" {
		cfg.RolloverTime = DefaultRolloverTime
	}

	s := gocron.NewScheduler(cfg.Location)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		sessions:  sessions,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.cfg.RolloverTime).Do(s.rollover); err != nil {
		return fmt.Errorf("schedule rollover: %w", err)
	}
	if _, err := s.scheduler.Cron("0 * * * *").Do(s.checkAndSendReminders); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "rollover_time", s.cfg.RolloverTime, "reminder_hour", s.cfg.ReminderHour)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// rollover zeroes the streak of learners who let a whole day pass
func (s *Scheduler) rollover() {
	ctx := context.Background()

	corrected := 0
	for _, e := range s.sessions.Active() {
		if e.Progress.RolloverDay(ctx) {
			corrected++
		}
	}
	s.log.Info("day rollover", "corrected", corrected)
}

// checkAndSendReminders nudges learners who are below their daily goal at the reminder hour
func (s *Scheduler) checkAndSendReminders() {
	currentHour := s.now().In(s.cfg.Location).Hour()
	if currentHour != s.cfg.ReminderHour {
		return
	}

	for _, e := range s.sessions.Active() {
		if !e.Progress.HasCompletedOnboarding() {
			continue
		}

		today := e.Progress.TodayXP()
		goal := e.Progress.Progress().DailyGoal
		if today >= goal {
			continue
		}

		if err := s.notifier.SendReminder(e.ChatID, today, goal); err != nil {
			s.log.Error("send reminder", "chat_id", e.ChatID, "user_id", e.Progress.UserID(), "error", err)
		}
	}
}
