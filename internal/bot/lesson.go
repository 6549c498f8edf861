package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/pewma/internal/quiz"
	"github.com/example/pewma/internal/session"
)

func (b *Bot) handleStartLesson(ctx context.Context, st *chatState, chatID int64, lessonID string) {
	chat, ok := b.learner(ctx, chatID)
	if !ok {
		return
	}

	lesson, found := chat.Progress.Lesson(lessonID)
	if !found {
		b.send(chatID, "Lección no encontrada", nil)
		return
	}
	if lesson.IsLocked {
		b.send(chatID, "🔒 Esta lección está bloqueada. Sube de nivel para desbloquearla.", nil)
		return
	}

	attempt, err := quiz.NewAttempt(lesson)
	if err != nil {
		b.send(chatID, "Esta lección aún no tiene ejercicios.", nil)
		return
	}

	st.attempt = attempt
	b.send(chatID, fmt.Sprintf("📖 %s\n%s", lesson.Title, lesson.Description), nil)
	b.sendExercise(chatID, attempt)
}

func (b *Bot) sendExercise(chatID int64, attempt *quiz.Attempt) {
	ex, ok := attempt.Current()
	if !ok {
		return
	}
	pos, total := attempt.Position()
	b.send(chatID, formatExercise(ex, pos, total), answerButtons(ex, pos))
}

// handleAnswerButton resolves an option button into the option text
func (b *Bot) handleAnswerButton(ctx context.Context, st *chatState, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	pos, idx, ok := parseAnswerData(callback.Data)
	if !ok {
		b.answerCallback(callback, "")
		return
	}
	if st.attempt == nil {
		b.answerCallback(callback, "Esta lección ya terminó.")
		return
	}

	ex, current := st.attempt.Current()
	curPos, _ := st.attempt.Position()
	if !current || pos != curPos || idx >= len(ex.Options) {
		b.answerCallback(callback, "Esta pregunta ya fue respondida.")
		return
	}
	b.answerCallback(callback, "")

	chat := b.sessions.Get(ctx, chatID)
	if chat == nil {
		st.attempt = nil
		b.send(chatID, notLoggedInText, nil)
		return
	}
	b.submitAnswer(ctx, st, chat, ex.Options[idx])
}

func (b *Bot) submitAnswer(ctx context.Context, st *chatState, chat *session.Chat, answer string) {
	fb, err := st.attempt.Check(answer)
	if err != nil {
		st.attempt = nil
		return
	}
	b.send(chat.ID, formatFeedback(fb), nil)

	if !fb.Finished {
		b.sendExercise(chat.ID, st.attempt)
		return
	}

	attempt := st.attempt
	st.attempt = nil
	res := attempt.Result()
	unlocked := chat.Progress.CompleteLesson(ctx, res.LessonID, res.EarnedXP, res.IsPerfect)

	b.log.Info("lesson completed",
		"chat_id", chat.ID,
		"user_id", chat.Auth.User.ID,
		"lesson_id", res.LessonID,
		"earned_xp", res.EarnedXP,
		"perfect", res.IsPerfect,
		"achievements", len(unlocked),
	)

	text := formatCompletion(attempt.Lesson(), res, chat.Progress.Progress(), unlocked)
	b.send(chat.ID, text, [][]MenuButton{
		{{Text: "Continuar", CallbackData: callbackLessons}},
		{{Text: "« Menú", CallbackData: callbackMenu}},
	})
}

func parseAnswerData(data string) (pos, idx int, ok bool) {
	parts := strings.Split(strings.TrimPrefix(data, prefixAnswer), "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	pos, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	idx, err = strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return 0, 0, false
	}
	return pos, idx, true
}
