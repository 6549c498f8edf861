package bot

import (
	"fmt"
	"strings"

	"github.com/example/pewma/internal/quiz"
	"github.com/example/pewma/pkg/models"
)

const (
	welcomeText = "¡Mari mari! 👋 Bienvenido a Pewma, tu compañero para aprender mapudungun.\n\n" +
		"Para comenzar crea una cuenta o inicia sesión:\n" +
		"/register <correo> <usuario> <contraseña>\n" +
		"/login <correo> <contraseña>"

	helpText = "📖 Comandos disponibles\n\n" +
		"🔸 Cuenta:\n" +
		"/register <correo> <usuario> <contraseña> - Crear una cuenta\n" +
		"/login <correo> <contraseña> - Iniciar sesión\n" +
		"/logout - Cerrar sesión\n" +
		"/profile - Ver tu perfil\n" +
		"/username <nombre> - Cambiar tu nombre de usuario\n" +
		"/bio <texto> - Cambiar tu descripción\n\n" +
		"📚 Aprender:\n" +
		"/lessons - Ver lecciones\n" +
		"/stats - Ver tu progreso\n" +
		"/achievements - Ver tus logros\n" +
		"/reset - Reiniciar tu progreso\n" +
		"/help - Mostrar esta ayuda"

	notLoggedInText     = "Primero inicia sesión con /login o crea una cuenta con /register."
	onboardingLevelText = "¿Cuál es tu nivel?\nSelecciona tu nivel de conocimiento:"
	onboardingGoalText  = "Meta diaria\n¿Cuánto XP quieres ganar cada día?"
	resetConfirmText    = "⚠️ ¿Seguro que quieres reiniciar tu progreso? Perderás tu XP, racha, lecciones y logros."
	unknownText         = "No entendí. Usa /help para ver los comandos."
	loadingText         = "⏳ Cargando tu progreso, intenta de nuevo en un momento."
)

var levelLabels = map[models.OnboardingLevel]string{
	models.LevelBeginner:     "🌱 Principiante - Nunca he estudiado mapudungun",
	models.LevelIntermediate: "🌿 Intermedio - Conozco algunas palabras básicas",
	models.LevelAdvanced:     "🌳 Avanzado - Puedo mantener conversaciones simples",
}

var onboardingLevels = []models.OnboardingLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced}

type goalOption struct {
	XP    int
	Label string
}

var goalOptions = []goalOption{
	{10, "10 XP · Casual · ~5 min/día"},
	{20, "20 XP · Regular · ~10 min/día"},
	{50, "50 XP · Serio · ~20 min/día"},
}

func formatStats(p models.UserProgress, todayXP int) string {
	var sb strings.Builder
	sb.WriteString("📊 Tu progreso\n\n")
	fmt.Fprintf(&sb, "⭐ Nivel: %d\n", p.CurrentLevel)
	fmt.Fprintf(&sb, "✨ XP total: %d\n", p.TotalXP)
	fmt.Fprintf(&sb, "🔥 Racha: %d %s\n", p.Streak, plural(p.Streak, "día", "días"))
	fmt.Fprintf(&sb, "🎯 Meta diaria: %d/%d XP %s\n", todayXP, p.DailyGoal, progressBar(todayXP, p.DailyGoal, 10))
	fmt.Fprintf(&sb, "📚 Lecciones completadas: %d\n", p.CompletedLessons.Len())

	next := p.CurrentLevel * models.XPPerLevel
	fmt.Fprintf(&sb, "\nTe faltan %d XP para el nivel %d.", next-p.TotalXP, p.CurrentLevel+1)
	return sb.String()
}

func formatProfile(user models.User, p models.UserProgress, achievements []models.Achievement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 %s\n", user.Username)
	fmt.Fprintf(&sb, "Nivel %d\n", p.CurrentLevel)
	if user.Bio != "" {
		fmt.Fprintf(&sb, "%s\n", user.Bio)
	}
	fmt.Fprintf(&sb, "\n✨ XP Total: %d\n", p.TotalXP)
	fmt.Fprintf(&sb, "🔥 Racha: %d\n", p.Streak)
	fmt.Fprintf(&sb, "📚 Lecciones: %d\n", p.CompletedLessons.Len())
	fmt.Fprintf(&sb, "🏅 Logros: %d\n", countUnlocked(achievements))
	fmt.Fprintf(&sb, "\n📧 %s", user.Email)
	return sb.String()
}

func formatAchievements(achievements []models.Achievement) string {
	var unlocked, locked []models.Achievement
	for _, a := range achievements {
		if a.IsUnlocked {
			unlocked = append(unlocked, a)
		} else {
			locked = append(locked, a)
		}
	}

	var sb strings.Builder
	sb.WriteString("🏅 Logros Desbloqueados\n")
	if len(unlocked) == 0 {
		sb.WriteString("Completa lecciones para desbloquear logros\n")
	}
	for _, a := range unlocked {
		fmt.Fprintf(&sb, "%s %s ✓ - %s\n", a.Icon, a.Title, a.Description)
	}

	if len(locked) > 0 {
		sb.WriteString("\n🔒 Logros Bloqueados\n")
		for _, a := range locked {
			fmt.Fprintf(&sb, "🔒 %s - %s\n", a.Title, a.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatLessonList(lessons []models.Lesson) string {
	var sb strings.Builder
	sb.WriteString("📚 Lecciones\n")

	level := 0
	for _, l := range lessons {
		if l.Level != level {
			level = l.Level
			fmt.Fprintf(&sb, "\nNivel %d\n", level)
		}
		mark := "▶️"
		switch {
		case l.IsCompleted:
			mark = "✅"
		case l.IsLocked:
			mark = "🔒"
		}
		fmt.Fprintf(&sb, "%s %s (+%d XP)\n", mark, l.Title, l.XPReward)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatExercise(ex models.Exercise, pos, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ejercicio %d de %d\n\n", pos, total)
	sb.WriteString(ex.Question)
	if ex.AudioURL != "" {
		fmt.Fprintf(&sb, "\n🔊 %s", ex.AudioURL)
	}
	if len(ex.Options) == 0 {
		sb.WriteString("\n\n✍️ Escribe tu respuesta.")
	}
	return sb.String()
}

func formatFeedback(fb quiz.Feedback) string {
	var text string
	if fb.Correct {
		text = "✅ ¡Correcto!"
	} else {
		text = fmt.Sprintf("❌ Incorrecto. La respuesta correcta es: %s", fb.CorrectAnswer)
	}
	if fb.Translation != "" {
		text += fmt.Sprintf("\n💬 %s", fb.Translation)
	}
	return text
}

func formatCompletion(lesson models.Lesson, res quiz.Result, p models.UserProgress, unlocked []models.Achievement) string {
	var sb strings.Builder
	sb.WriteString("🎉 ¡Lección Completada!\n")
	fmt.Fprintf(&sb, "%s\n\n", lesson.Title)
	fmt.Fprintf(&sb, "+%d XP · %d %s · %d ejercicios\n", res.EarnedXP, res.Mistakes, plural(res.Mistakes, "error", "errores"), res.Total)
	if res.IsPerfect {
		sb.WriteString("✨ ¡Perfecto! ✨\n")
	}
	fmt.Fprintf(&sb, "\n🔥 Racha: %d · ⭐ Nivel %d · 🎯 Hoy: %d/%d XP", p.Streak, p.CurrentLevel, p.DailyXP, p.DailyGoal)
	if p.DailyGoalReached() {
		sb.WriteString("\n🏆 ¡Meta diaria cumplida!")
	}

	if len(unlocked) > 0 {
		sb.WriteString("\n\n🏅 ¡Nuevo logro!")
		for _, a := range unlocked {
			fmt.Fprintf(&sb, "\n%s %s - %s", a.Icon, a.Title, a.Description)
		}
	}
	return sb.String()
}

func formatReminder(todayXP, goal int) string {
	return fmt.Sprintf("🔔 ¡No pierdas tu racha! Hoy llevas %d de %d XP. Usa /lessons para practicar un poco.", todayXP, goal)
}

func progressBar(value, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := value * width / total
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func countUnlocked(achievements []models.Achievement) int {
	n := 0
	for _, a := range achievements {
		if a.IsUnlocked {
			n++
		}
	}
	return n
}
