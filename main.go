package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/pewma/internal/auth"
	"github.com/example/pewma/internal/bot"
	"github.com/example/pewma/internal/catalog"
	"github.com/example/pewma/internal/config"
	"github.com/example/pewma/internal/database"
	"github.com/example/pewma/internal/progress"
	"github.com/example/pewma/internal/scheduler"
	"github.com/example/pewma/internal/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Validate already checked both
	level, _ := cfg.SlogLevel()
	loc, _ := cfg.Location()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{Type: cfg.DBType, Path: cfg.DBPath, URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer db.Close()
	store := database.NewStore(db)

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, result, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return err
		}
		for _, msg := range result.Errors {
			log.Warn("catalog row skipped", "file", cfg.CatalogFile, "reason", msg)
		}
		log.Info("catalog loaded", "file", cfg.CatalogFile, "lessons", result.Lessons, "exercises", result.Exercises)
		cat = loaded
	}

	authService := auth.NewService(store.Users, store, auth.NewFileSlot(cfg.SessionDir), cfg.DefaultDailyGoal, log)
	manager := session.NewManager(authService, store, cat, log,
		progress.WithLocation(loc),
		progress.WithDefaultDailyGoal(cfg.DefaultDailyGoal),
	)
	defer manager.Close()

	restored := manager.RestoreAll(ctx)
	log.Info("sessions restored", "count", restored)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return err
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)

	b := bot.New(api, manager, log)

	if cfg.EnableScheduler {
		sched := scheduler.New(manager, b, scheduler.Config{
			Location:     loc,
			ReminderHour: cfg.ReminderHour,
			RolloverTime: cfg.RolloverTime,
		}, log)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		api.StopReceivingUpdates()
	}()

	log.Info("bot started")
	b.Run(ctx, updates)
	log.Info("bot stopped")
	return nil
}
