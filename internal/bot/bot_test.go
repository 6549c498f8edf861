package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pewma/internal/auth"
	"github.com/example/pewma/internal/catalog"
	"github.com/example/pewma/internal/database"
	"github.com/example/pewma/internal/session"
)

type mockSender struct {
	mu        sync.Mutex
	messages  []tgbotapi.MessageConfig
	callbacks []tgbotapi.CallbackConfig
	deleted   []int
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.messages = append(m.messages, msg)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.CallbackConfig:
		m.callbacks = append(m.callbacks, v)
	case tgbotapi.DeleteMessageConfig:
		m.deleted = append(m.deleted, v.MessageID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockSender) last() tgbotapi.MessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[len(m.messages)-1]
}

func (m *mockSender) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	for i, msg := range m.messages {
		out[i] = msg.Text
	}
	return out
}

func (m *mockSender) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.callbacks = nil
}

func buttonData(msg tgbotapi.MessageConfig) []string {
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				data = append(data, *btn.CallbackData)
			}
		}
	}
	return data
}

const chatID int64 = 99

func setup(t *testing.T) (*Bot, *mockSender) {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Connect(database.Config{Type: "sqlite", Path: filepath.Join(dir, "pewma.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db)
	authService := auth.NewService(store.Users, store, auth.NewFileSlot(filepath.Join(dir, "sessions")), 20, log)
	manager := session.NewManager(authService, store, catalog.Default(), log)
	t.Cleanup(manager.Close)

	api := &mockSender{}
	return New(api, manager, log), api
}

func command(text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 8, Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func onboard(t *testing.T, b *Bot, api *mockSender) {
	t.Helper()
	ctx := context.Background()
	b.handleUpdate(ctx, command("/register ana@example.com ana mari-mari"))
	b.handleUpdate(ctx, callback(prefixLevel+"beginner"))
	b.handleUpdate(ctx, callback(prefixGoal+"50"))
	require.Contains(t, api.last().Text, "50 XP")
	api.reset()
}

func TestStart_NotLoggedIn(t *testing.T) {
	b, api := setup(t)

	b.handleUpdate(context.Background(), command("/start"))

	assert.Equal(t, welcomeText, api.last().Text)
}

func TestRegisterDeletesPasswordAndStartsOnboarding(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()

	b.handleUpdate(ctx, command("/register ana@example.com ana mari-mari"))

	assert.Equal(t, []int{7}, api.deleted)
	assert.Contains(t, api.texts()[0], "ana")
	assert.Equal(t, onboardingLevelText, api.last().Text)
	assert.Contains(t, buttonData(api.last()), "level_beginner")

	b.handleUpdate(ctx, command("/lessons"))
	assert.Equal(t, onboardingLevelText, api.last().Text, "lessons are gated by onboarding")
}

func TestRegisterErrors(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()

	b.handleUpdate(ctx, command("/register ana@example.com"))
	assert.Contains(t, api.last().Text, "Uso: /register")

	b.handleUpdate(ctx, command("/register ana@example.com ana 123"))
	assert.Contains(t, api.last().Text, "Datos inválidos")

	b.handleUpdate(ctx, command("/register ana@example.com ana mari-mari"))
	b.handleUpdate(ctx, command("/logout"))
	b.handleUpdate(ctx, command("/register ANA@example.com otra mari-mari"))
	assert.Equal(t, "Este correo ya está registrado", api.last().Text)
}

func TestLoginLogout(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	onboard(t, b, api)

	b.handleUpdate(ctx, command("/logout"))
	assert.Contains(t, api.last().Text, "Sesión cerrada")

	b.handleUpdate(ctx, command("/stats"))
	assert.Equal(t, notLoggedInText, api.last().Text)

	b.handleUpdate(ctx, command("/login ana@example.com wrong-pass"))
	assert.Equal(t, "Correo o contraseña incorrectos", api.last().Text)

	b.handleUpdate(ctx, command("/login ana@example.com mari-mari"))
	assert.Contains(t, api.last().Text, "Mari mari, ana")
	assert.Contains(t, buttonData(api.last()), callbackLessons)
}

func TestOnboardingGoalWithoutLevel(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	b.handleUpdate(ctx, command("/register ana@example.com ana mari-mari"))

	b.handleUpdate(ctx, callback(prefixGoal+"20"))

	assert.Equal(t, onboardingLevelText, api.last().Text)
}

func TestLessonFlow(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	onboard(t, b, api)

	b.handleUpdate(ctx, command("/lessons"))
	data := buttonData(api.last())
	assert.Contains(t, data, "lesson_saludos")
	assert.NotContains(t, data, "lesson_familia")

	b.handleUpdate(ctx, callback("lesson_familia"))
	assert.Contains(t, api.last().Text, "bloqueada")

	b.handleUpdate(ctx, callback("lesson_saludos"))
	assert.Contains(t, api.last().Text, "Ejercicio 1 de 4")
	assert.Equal(t, []string{"answer_1_0", "answer_1_1", "answer_1_2", "answer_1_3"}, buttonData(api.last()))

	b.handleUpdate(ctx, text("Mari mari"))
	assert.Contains(t, api.last().Text, "Elige una de las opciones")

	b.handleUpdate(ctx, callback("answer_1_0"))
	assert.Contains(t, api.last().Text, "Ejercicio 2 de 4")

	// a button of an exercise already answered
	b.handleUpdate(ctx, callback("answer_1_0"))
	assert.Equal(t, "Esta pregunta ya fue respondida.", api.callbacks[len(api.callbacks)-1].Text)

	b.handleUpdate(ctx, text("  Chaltu May "))
	b.handleUpdate(ctx, callback("answer_3_1"))
	b.handleUpdate(ctx, text("MARI"))

	done := api.last().Text
	assert.Contains(t, done, "¡Lección Completada!")
	assert.Contains(t, done, "+15 XP")
	assert.Contains(t, done, "¡Perfecto!")
	assert.Contains(t, done, "Primer paso")

	b.handleUpdate(ctx, command("/stats"))
	stats := api.last().Text
	assert.Contains(t, stats, "XP total: 15")
	assert.Contains(t, stats, "Racha: 1 día")
	assert.Contains(t, stats, "15/50 XP")

	b.handleUpdate(ctx, command("/lessons"))
	assert.Contains(t, buttonData(api.last()), "lesson_familia")
}

func TestLessonWithMistakes(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	onboard(t, b, api)

	b.handleUpdate(ctx, callback("lesson_numeros"))
	b.handleUpdate(ctx, callback("answer_1_1"))
	assert.Contains(t, api.texts()[len(api.texts())-2], "La respuesta correcta es: 1")

	b.handleUpdate(ctx, text("epu"))
	b.handleUpdate(ctx, callback("answer_3_1"))
	b.handleUpdate(ctx, text("kechu"))

	done := api.last().Text
	assert.Contains(t, done, "1 error ")
	assert.NotContains(t, done, "¡Perfecto!")
}

func TestResetFlow(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	onboard(t, b, api)

	b.handleUpdate(ctx, callback("lesson_saludos"))
	b.handleUpdate(ctx, command("/reset"))
	assert.Equal(t, resetConfirmText, api.last().Text)

	b.handleUpdate(ctx, callback(callbackResetCancel))
	assert.Contains(t, api.last().Text, "cancelado")

	b.handleUpdate(ctx, callback(callbackResetConfirm))
	assert.Equal(t, onboardingLevelText, api.last().Text)

	b.handleUpdate(ctx, text("chaltu may"))
	assert.Equal(t, unknownText, api.last().Text, "the attempt was dropped by the reset")

	b.handleUpdate(ctx, callback(prefixLevel+"advanced"))
	b.handleUpdate(ctx, callback(prefixGoal+"10"))
	b.handleUpdate(ctx, command("/stats"))
	assert.Contains(t, api.last().Text, "XP total: 0")
}

func TestProfileUpdates(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	onboard(t, b, api)

	b.handleUpdate(ctx, command("/bio Aprendiendo mapudungun"))
	assert.Contains(t, api.last().Text, "Perfil actualizado")
	assert.Contains(t, api.last().Text, "Aprendiendo mapudungun")

	b.handleUpdate(ctx, command("/username"))
	assert.Contains(t, api.last().Text, "Uso: /username")

	b.handleUpdate(ctx, command("/username lamngen"))
	b.handleUpdate(ctx, command("/profile"))
	assert.Contains(t, api.last().Text, "👤 lamngen")
	assert.Contains(t, buttonData(api.last()), callbackReset)
}

func TestAchievementsAndUnknown(t *testing.T) {
	b, api := setup(t)
	ctx := context.Background()
	onboard(t, b, api)

	b.handleUpdate(ctx, command("/achievements"))
	assert.Contains(t, api.last().Text, "Completa lecciones para desbloquear logros")

	b.handleUpdate(ctx, command("/dance"))
	assert.Equal(t, unknownText, api.last().Text)

	b.handleUpdate(ctx, text("hola"))
	assert.Equal(t, unknownText, api.last().Text)
}

func TestSendReminder(t *testing.T) {
	b, api := setup(t)

	require.NoError(t, b.SendReminder(5, 10, 50))

	msg := api.last()
	assert.Equal(t, int64(5), msg.ChatID)
	assert.Contains(t, msg.Text, "10 de 50 XP")
	assert.Equal(t, []string{callbackLessons}, buttonData(msg))
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	b, api := setup(t)

	updates := make(chan tgbotapi.Update, 1)
	updates <- command("/help")
	close(updates)

	b.Run(context.Background(), updates)

	assert.Equal(t, helpText, api.last().Text)
}
