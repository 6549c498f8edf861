package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/pewma/pkg/models"
)

// Callback data
const (
	callbackMenu         = "menu"
	callbackLessons      = "lessons"
	callbackStats        = "stats"
	callbackAchievements = "achievements"
	callbackProfile      = "profile"
	callbackReset        = "reset"
	callbackResetConfirm = "reset_confirm"
	callbackResetCancel  = "reset_cancel"

	prefixLevel  = "level_"
	prefixGoal   = "goal_"
	prefixLesson = "lesson_"
	prefixAnswer = "answer_"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuButtons returns the buttons for the main menu
func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Lecciones", CallbackData: callbackLessons}},
		{
			{Text: "📊 Progreso", CallbackData: callbackStats},
			{Text: "🏅 Logros", CallbackData: callbackAchievements},
		},
		{{Text: "👤 Perfil", CallbackData: callbackProfile}},
	}
}

func levelButtons() [][]MenuButton {
	var rows [][]MenuButton
	for _, level := range onboardingLevels {
		rows = append(rows, []MenuButton{{Text: levelLabels[level], CallbackData: prefixLevel + string(level)}})
	}
	return rows
}

func goalButtons() [][]MenuButton {
	var rows [][]MenuButton
	for _, g := range goalOptions {
		rows = append(rows, []MenuButton{{Text: g.Label, CallbackData: fmt.Sprintf("%s%d", prefixGoal, g.XP)}})
	}
	return rows
}

// lessonButtons lists the lessons that can be started; locked lessons get no button
func lessonButtons(lessons []models.Lesson) [][]MenuButton {
	var rows [][]MenuButton
	for _, l := range lessons {
		if l.IsLocked {
			continue
		}
		text := "▶️ " + l.Title
		if l.IsCompleted {
			text = "🔁 " + l.Title
		}
		rows = append(rows, []MenuButton{{Text: text, CallbackData: prefixLesson + l.ID}})
	}
	rows = append(rows, []MenuButton{{Text: "« Menú", CallbackData: callbackMenu}})
	return rows
}

// answerButtons offers the options of an exercise. The position guards against
// answering a previous exercise with a stale button.
func answerButtons(ex models.Exercise, pos int) [][]MenuButton {
	var rows [][]MenuButton
	for i, opt := range ex.Options {
		rows = append(rows, []MenuButton{{Text: opt, CallbackData: fmt.Sprintf("%s%d_%d", prefixAnswer, pos, i)}})
	}
	return rows
}

func resetButtons() [][]MenuButton {
	return [][]MenuButton{{
		{Text: "Sí, reiniciar", CallbackData: callbackResetConfirm},
		{Text: "Cancelar", CallbackData: callbackResetCancel},
	}}
}

func profileButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "🔄 Reiniciar Progreso", CallbackData: callbackReset}},
		{{Text: "« Menú", CallbackData: callbackMenu}},
	}
}
