package catalog

import "github.com/example/pewma/pkg/models"

var defaultAchievements = []models.Achievement{
	{ID: AchievementFirstLesson, Title: "Primer paso", Description: "Completa tu primera lección", Icon: "🌱"},
	{ID: AchievementStreak3, Title: "Constancia", Description: "Mantén una racha de 3 días", Icon: "🔥"},
	{ID: AchievementStreak7, Title: "Semana completa", Description: "Mantén una racha de 7 días", Icon: "⭐"},
	{ID: AchievementXP100, Title: "Cien puntos", Description: "Gana 100 XP en total", Icon: "💯"},
	{ID: AchievementXP500, Title: "Quinientos puntos", Description: "Gana 500 XP en total", Icon: "🏆"},
	{ID: AchievementLevel2, Title: "Subiendo", Description: "Alcanza el nivel 2", Icon: "📈"},
	{ID: AchievementPerfectLesson, Title: "Perfecto", Description: "Completa una lección sin errores", Icon: "🎯"},
}

var defaultLessons = []models.Lesson{
	{
		ID:          "saludos",
		Title:       "Saludos",
		Description: "Aprende a saludar y despedirte",
		Level:       1,
		XPReward:    15,
		Exercises: []models.Exercise{
			{ID: "saludos-1", Type: models.MultipleChoice, Question: "¿Cómo se dice 'hola' en mapudungun?", CorrectAnswer: "Mari mari", Options: []string{"Mari mari", "Pewkayal", "Chaltu may", "Kümelen"}},
			{ID: "saludos-2", Type: models.Translation, Question: "Traduce al mapudungun: 'gracias'", CorrectAnswer: "chaltu may", Translation: "gracias"},
			{ID: "saludos-3", Type: models.MultipleChoice, Question: "¿Qué significa 'pewkayal'?", CorrectAnswer: "Adiós", Options: []string{"Hola", "Adiós", "Gracias", "Sí"}},
			{ID: "saludos-4", Type: models.FillIn, Question: "Completa: '____ mari, lamngen'", CorrectAnswer: "mari", Translation: "hola, hermana"},
		},
		IsLocked: false,
	},
	{
		ID:          "numeros",
		Title:       "Números",
		Description: "Cuenta del uno al cinco",
		Level:       1,
		XPReward:    15,
		Exercises: []models.Exercise{
			{ID: "numeros-1", Type: models.MultipleChoice, Question: "¿Qué número es 'kiñe'?", CorrectAnswer: "1", Options: []string{"1", "2", "3", "4"}},
			{ID: "numeros-2", Type: models.Translation, Question: "Traduce al mapudungun: 'dos'", CorrectAnswer: "epu"},
			{ID: "numeros-3", Type: models.Listening, Question: "Escucha y elige: 'küla'", CorrectAnswer: "3", Options: []string{"5", "3", "4", "1"}},
			{ID: "numeros-4", Type: models.FillIn, Question: "Completa la serie: meli, ____ (cinco)", CorrectAnswer: "kechu"},
		},
		IsLocked: false,
	},
	{
		ID:          "familia",
		Title:       "La familia",
		Description: "Palabras para hablar de tu familia",
		Level:       2,
		XPReward:    20,
		Exercises: []models.Exercise{
			{ID: "familia-1", Type: models.MultipleChoice, Question: "¿Cómo se dice 'madre'?", CorrectAnswer: "Ñuke", Options: []string{"Chaw", "Ñuke", "Lamngen", "Che"}},
			{ID: "familia-2", Type: models.MultipleChoice, Question: "¿Qué significa 'chaw'?", CorrectAnswer: "Padre", Options: []string{"Padre", "Hijo", "Abuela", "Tío"}},
			{ID: "familia-3", Type: models.Translation, Question: "Traduce al mapudungun: 'hermano'", CorrectAnswer: "lamngen"},
			{ID: "familia-4", Type: models.Speaking, Question: "Di en voz alta y elige lo que dijiste: 'persona'", CorrectAnswer: "Che", Options: []string{"Che", "Ko", "Mapu"}},
		},
		IsLocked: true,
	},
	{
		ID:          "naturaleza",
		Title:       "Naturaleza",
		Description: "El sol, la luna, el agua y la tierra",
		Level:       2,
		XPReward:    20,
		Exercises: []models.Exercise{
			{ID: "naturaleza-1", Type: models.MultipleChoice, Question: "¿Cómo se dice 'sol'?", CorrectAnswer: "Antü", Options: []string{"Küyen", "Antü", "Ko", "Lafken"}},
			{ID: "naturaleza-2", Type: models.Translation, Question: "Traduce al mapudungun: 'agua'", CorrectAnswer: "ko"},
			{ID: "naturaleza-3", Type: models.MultipleChoice, Question: "¿Qué significa 'mapu'?", CorrectAnswer: "Tierra", Options: []string{"Mar", "Tierra", "Luna", "Cielo"}},
			{ID: "naturaleza-4", Type: models.FillIn, Question: "Completa: 'küyen' significa ____", CorrectAnswer: "luna"},
		},
		IsLocked: true,
	},
	{
		ID:          "colores",
		Title:       "Colores",
		Description: "Nombra los colores",
		Level:       3,
		XPReward:    20,
		Exercises: []models.Exercise{
			{ID: "colores-1", Type: models.MultipleChoice, Question: "¿Qué color es 'kallfü'?", CorrectAnswer: "Azul", Options: []string{"Rojo", "Azul", "Verde", "Negro"}},
			{ID: "colores-2", Type: models.Translation, Question: "Traduce al mapudungun: 'rojo'", CorrectAnswer: "kelü"},
			{ID: "colores-3", Type: models.MultipleChoice, Question: "¿Cómo se dice 'blanco'?", CorrectAnswer: "Lig", Options: []string{"Kurü", "Lig", "Karü"}},
		},
		IsLocked: true,
	},
	{
		ID:          "comida",
		Title:       "Comida",
		Description: "Alimentos de todos los días",
		Level:       3,
		XPReward:    20,
		Exercises: []models.Exercise{
			{ID: "comida-1", Type: models.MultipleChoice, Question: "¿Qué significa 'kofke'?", CorrectAnswer: "Pan", Options: []string{"Pan", "Papa", "Carne", "Trigo"}},
			{ID: "comida-2", Type: models.Translation, Question: "Traduce al mapudungun: 'papa'", CorrectAnswer: "poñü"},
			{ID: "comida-3", Type: models.Listening, Question: "Escucha y elige: 'ilo'", CorrectAnswer: "Carne", Options: []string{"Agua", "Carne", "Pan"}},
		},
		IsLocked: true,
	},
	{
		ID:          "conversacion",
		Title:       "Conversación",
		Description: "Pregunta cómo está alguien y responde",
		Level:       4,
		XPReward:    25,
		Exercises: []models.Exercise{
			{ID: "conversacion-1", Type: models.MultipleChoice, Question: "¿Qué significa '¿Chumleymi?'", CorrectAnswer: "¿Cómo estás?", Options: []string{"¿Cómo estás?", "¿Dónde vives?", "¿Cómo te llamas?"}},
			{ID: "conversacion-2", Type: models.Translation, Question: "Traduce al mapudungun: 'estoy bien'", CorrectAnswer: "kümelen"},
			{ID: "conversacion-3", Type: models.Speaking, Question: "Di en voz alta y elige lo que dijiste: 'hasta luego'", CorrectAnswer: "Pewkayal", Options: []string{"Mari mari", "Pewkayal", "Chaltu may"}},
		},
		IsLocked: true,
	},
}
