// Package bot is the Telegram front-end through which learners register,
// take lessons and follow their progress.
package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/pewma/internal/quiz"
	"github.com/example/pewma/internal/session"
	"github.com/example/pewma/pkg/models"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type chatSessions interface {
	Register(ctx context.Context, chatID int64, cred models.RegisterCredentials) (*session.Chat, error)
	Login(ctx context.Context, chatID int64, cred models.LoginCredentials) (*session.Chat, error)
	Logout(chatID int64) error
	Get(ctx context.Context, chatID int64) *session.Chat
	UpdateProfile(ctx context.Context, chatID int64, upd models.ProfileUpdate) (*session.Chat, error)
}

// chatState is the conversation state of one chat. Updates of the same chat
// are handled one at a time under mu.
type chatState struct {
	mu      sync.Mutex
	level   models.OnboardingLevel
	attempt *quiz.Attempt
}

// Bot represents the Telegram bot application
type Bot struct {
	api      sender
	sessions chatSessions
	log      *slog.Logger

	mu       sync.Mutex
	states   map[int64]*chatState
	handlers sync.WaitGroup
}

// New creates a new bot instance
func New(api sender, sessions chatSessions, log *slog.Logger) *Bot {
	return &Bot{
		api:      api,
		sessions: sessions,
		log:      log,
		states:   make(map[int64]*chatState),
	}
}

// Run handles updates until the channel is closed or ctx is done, then waits
// for the handlers in flight
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer b.handlers.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handlers.Add(1)
			go func() {
				defer b.handlers.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(chatID int64, todayXP, dailyGoal int) error {
	msg := tgbotapi.NewMessage(chatID, formatReminder(todayXP, dailyGoal))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "📚 Lecciones", CallbackData: callbackLessons}}})
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	b.log.Debug("reminder sent", "chat_id", chatID, "today_xp", todayXP, "daily_goal", dailyGoal)
	return nil
}

func (b *Bot) state(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[chatID]
	if !ok {
		st = &chatState{}
		b.states[chatID] = st
	}
	return st
}

func (b *Bot) forget(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.states, chatID)
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var chatID int64
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		chatID = update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		chatID = update.CallbackQuery.Message.Chat.ID
	default:
		return
	}

	st := b.state(chatID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if update.Message != nil {
		if update.Message.IsCommand() {
			b.handleCommand(ctx, st, update.Message)
			return
		}
		b.handleText(ctx, st, update.Message)
		return
	}
	b.handleCallbackQuery(ctx, st, update.CallbackQuery)
}

func (b *Bot) send(chatID int64, text string, keyboard [][]MenuButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = createKeyboard(keyboard)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		b.log.Error("answer callback", "chat_id", callback.Message.Chat.ID, "error", err)
	}
}

// deleteMessage removes a message that carried a password
func (b *Bot) deleteMessage(message *tgbotapi.Message) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)); err != nil {
		b.log.Warn("delete message", "chat_id", message.Chat.ID, "error", err)
	}
}
