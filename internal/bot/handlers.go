package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/pewma/internal/auth"
	"github.com/example/pewma/internal/session"
	"github.com/example/pewma/pkg/models"
)

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, st *chatState, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.send(chatID, helpText, nil)
	case "register":
		b.handleRegister(ctx, st, message)
	case "login":
		b.handleLogin(ctx, st, message)
	case "logout":
		b.handleLogout(st, chatID)
	case "profile":
		b.handleProfile(ctx, chatID)
	case "bio":
		bio := strings.TrimSpace(message.CommandArguments())
		b.handleProfileUpdate(ctx, chatID, models.ProfileUpdate{Bio: &bio})
	case "username":
		name := strings.TrimSpace(message.CommandArguments())
		if name == "" {
			b.send(chatID, "Uso: /username <nombre>", nil)
			return
		}
		b.handleProfileUpdate(ctx, chatID, models.ProfileUpdate{Username: &name})
	case "lessons":
		b.handleLessons(ctx, chatID)
	case "stats":
		b.handleStats(ctx, chatID)
	case "achievements":
		b.handleAchievements(ctx, chatID)
	case "reset":
		b.handleReset(ctx, chatID)
	default:
		b.send(chatID, unknownText, nil)
	}
}

// handleText handles plain messages; outside a lesson they are not understood
func (b *Bot) handleText(ctx context.Context, st *chatState, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if st.attempt == nil {
		b.send(chatID, unknownText, nil)
		return
	}

	ex, ok := st.attempt.Current()
	if !ok {
		st.attempt = nil
		b.send(chatID, unknownText, nil)
		return
	}
	if len(ex.Options) > 0 {
		b.send(chatID, "Elige una de las opciones de arriba.", nil)
		return
	}

	chat := b.sessions.Get(ctx, chatID)
	if chat == nil {
		st.attempt = nil
		b.send(chatID, notLoggedInText, nil)
		return
	}
	b.submitAnswer(ctx, st, chat, message.Text)
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, st *chatState, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	if strings.HasPrefix(data, prefixAnswer) {
		b.handleAnswerButton(ctx, st, callback)
		return
	}
	b.answerCallback(callback, "")

	switch data {
	case callbackMenu:
		b.handleStart(ctx, chatID)
	case callbackLessons:
		b.handleLessons(ctx, chatID)
	case callbackStats:
		b.handleStats(ctx, chatID)
	case callbackAchievements:
		b.handleAchievements(ctx, chatID)
	case callbackProfile:
		b.handleProfile(ctx, chatID)
	case callbackReset:
		b.handleReset(ctx, chatID)
	case callbackResetConfirm:
		b.handleResetConfirm(ctx, st, chatID)
	case callbackResetCancel:
		b.send(chatID, "Reinicio cancelado.", mainMenuButtons())
	default:
		switch {
		case strings.HasPrefix(data, prefixLevel):
			b.handleLevelChoice(ctx, st, chatID, models.OnboardingLevel(strings.TrimPrefix(data, prefixLevel)))
		case strings.HasPrefix(data, prefixGoal):
			goal, err := strconv.Atoi(strings.TrimPrefix(data, prefixGoal))
			if err != nil {
				b.log.Warn("bad goal callback", "chat_id", chatID, "data", data)
				return
			}
			b.handleGoalChoice(ctx, st, chatID, goal)
		case strings.HasPrefix(data, prefixLesson):
			b.handleStartLesson(ctx, st, chatID, strings.TrimPrefix(data, prefixLesson))
		default:
			b.log.Warn("unknown callback", "chat_id", chatID, "data", data)
		}
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	chat := b.sessions.Get(ctx, chatID)
	if chat == nil {
		b.send(chatID, welcomeText, nil)
		return
	}
	if !chat.Progress.HasCompletedOnboarding() {
		b.sendOnboarding(chatID)
		return
	}
	b.send(chatID, fmt.Sprintf("¡Mari mari, %s! ¿Qué quieres hacer hoy?", chat.Auth.User.Username), mainMenuButtons())
}

func (b *Bot) handleRegister(ctx context.Context, st *chatState, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())
	if len(args) > 0 {
		b.deleteMessage(message)
	}
	if len(args) != 3 {
		b.send(chatID, "Uso: /register <correo> <usuario> <contraseña>", nil)
		return
	}

	chat, err := b.sessions.Register(ctx, chatID, models.RegisterCredentials{
		Email:    args[0],
		Username: args[1],
		Password: args[2],
	})
	if err != nil {
		b.send(chatID, authErrorText(err, "Error al registrar. Intenta de nuevo."), nil)
		if !isUserError(err) {
			b.log.Error("register", "chat_id", chatID, "error", err)
		}
		return
	}

	st.attempt = nil
	b.send(chatID, fmt.Sprintf("¡Bienvenido a Pewma, %s! 🎉", chat.Auth.User.Username), nil)
	b.sendOnboarding(chatID)
}

func (b *Bot) handleLogin(ctx context.Context, st *chatState, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())
	if len(args) > 0 {
		b.deleteMessage(message)
	}
	if len(args) != 2 {
		b.send(chatID, "Uso: /login <correo> <contraseña>", nil)
		return
	}

	chat, err := b.sessions.Login(ctx, chatID, models.LoginCredentials{Email: args[0], Password: args[1]})
	if err != nil {
		b.send(chatID, authErrorText(err, "Error al iniciar sesión. Intenta de nuevo."), nil)
		if !isUserError(err) {
			b.log.Error("login", "chat_id", chatID, "error", err)
		}
		return
	}

	st.attempt = nil
	st.level = ""
	if !chat.Progress.HasCompletedOnboarding() {
		b.sendOnboarding(chatID)
		return
	}
	b.send(chatID, fmt.Sprintf("¡Mari mari, %s! 👋", chat.Auth.User.Username), mainMenuButtons())
}

func (b *Bot) handleLogout(st *chatState, chatID int64) {
	st.attempt = nil
	st.level = ""
	if err := b.sessions.Logout(chatID); err != nil {
		b.log.Error("logout", "chat_id", chatID, "error", err)
	}
	b.forget(chatID)
	b.send(chatID, "Sesión cerrada. ¡Pewkayal! 👋", nil)
}

func (b *Bot) handleProfile(ctx context.Context, chatID int64) {
	chat := b.sessions.Get(ctx, chatID)
	if chat == nil {
		b.send(chatID, notLoggedInText, nil)
		return
	}
	text := formatProfile(chat.Auth.User, chat.Progress.Progress(), chat.Progress.Achievements())
	b.send(chatID, text, profileButtons())
}

func (b *Bot) handleProfileUpdate(ctx context.Context, chatID int64, upd models.ProfileUpdate) {
	chat, err := b.sessions.UpdateProfile(ctx, chatID, upd)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			b.send(chatID, notLoggedInText, nil)
			return
		}
		b.send(chatID, authErrorText(err, "No se pudo actualizar el perfil. Intenta de nuevo."), nil)
		if !isUserError(err) {
			b.log.Error("update profile", "chat_id", chatID, "error", err)
		}
		return
	}
	b.send(chatID, "✅ Perfil actualizado.\n\n"+formatProfile(chat.Auth.User, chat.Progress.Progress(), chat.Progress.Achievements()), nil)
}

func (b *Bot) handleLessons(ctx context.Context, chatID int64) {
	chat, ok := b.learner(ctx, chatID)
	if !ok {
		return
	}
	lessons := chat.Progress.Lessons()
	b.send(chatID, formatLessonList(lessons), lessonButtons(lessons))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	chat, ok := b.learner(ctx, chatID)
	if !ok {
		return
	}
	b.send(chatID, formatStats(chat.Progress.Progress(), chat.Progress.TodayXP()), mainMenuButtons())
}

func (b *Bot) handleAchievements(ctx context.Context, chatID int64) {
	chat, ok := b.learner(ctx, chatID)
	if !ok {
		return
	}
	b.send(chatID, formatAchievements(chat.Progress.Achievements()), nil)
}

func (b *Bot) handleReset(ctx context.Context, chatID int64) {
	if _, ok := b.learner(ctx, chatID); !ok {
		return
	}
	b.send(chatID, resetConfirmText, resetButtons())
}

func (b *Bot) handleResetConfirm(ctx context.Context, st *chatState, chatID int64) {
	chat := b.sessions.Get(ctx, chatID)
	if chat == nil {
		b.send(chatID, notLoggedInText, nil)
		return
	}

	st.attempt = nil
	st.level = ""
	chat.Progress.ResetProgress(ctx)
	b.send(chatID, "🔄 Tu progreso fue reiniciado.", nil)
	b.sendOnboarding(chatID)
}

func (b *Bot) sendOnboarding(chatID int64) {
	b.send(chatID, onboardingLevelText, levelButtons())
}

func (b *Bot) handleLevelChoice(ctx context.Context, st *chatState, chatID int64, level models.OnboardingLevel) {
	if !level.Valid() {
		b.log.Warn("bad level callback", "chat_id", chatID, "level", level)
		return
	}
	if b.sessions.Get(ctx, chatID) == nil {
		b.send(chatID, notLoggedInText, nil)
		return
	}

	st.level = level
	b.send(chatID, onboardingGoalText, goalButtons())
}

func (b *Bot) handleGoalChoice(ctx context.Context, st *chatState, chatID int64, goal int) {
	chat := b.sessions.Get(ctx, chatID)
	if chat == nil {
		b.send(chatID, notLoggedInText, nil)
		return
	}
	if st.level == "" {
		b.sendOnboarding(chatID)
		return
	}

	if err := chat.Progress.CompleteOnboarding(ctx, st.level, goal); err != nil {
		b.send(chatID, "❌ No pudimos guardar tu meta. Intenta de nuevo.", goalButtons())
		return
	}

	st.level = ""
	b.send(chatID, fmt.Sprintf("¡Listo! Tu meta diaria es %d XP. ¡Empecemos a aprender! 🌱", goal), mainMenuButtons())
}

// learner returns the chat's session when the learner may use the main features.
// Otherwise it tells the user what to do first.
func (b *Bot) learner(ctx context.Context, chatID int64) (*session.Chat, bool) {
	chat := b.sessions.Get(ctx, chatID)
	switch {
	case chat == nil:
		b.send(chatID, notLoggedInText, nil)
		return nil, false
	case chat.Progress.Loading():
		b.send(chatID, loadingText, nil)
		return nil, false
	case !chat.Progress.HasCompletedOnboarding():
		b.sendOnboarding(chatID)
		return nil, false
	}
	return chat, true
}

func authErrorText(err error, fallback string) string {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		return "Este correo ya está registrado"
	case errors.Is(err, auth.ErrUsernameTaken):
		return "Este nombre de usuario ya está en uso"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Correo o contraseña incorrectos"
	case errors.Is(err, auth.ErrInvalidInput):
		return fmt.Sprintf("Datos inválidos. La contraseña debe tener al menos %d caracteres y el correo debe ser válido.", auth.MinPasswordLength)
	}
	return fallback
}

func isUserError(err error) bool {
	return errors.Is(err, auth.ErrEmailTaken) ||
		errors.Is(err, auth.ErrUsernameTaken) ||
		errors.Is(err, auth.ErrInvalidCredentials) ||
		errors.Is(err, auth.ErrInvalidInput)
}
