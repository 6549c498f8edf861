package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pewma/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines where each lesson field lives in the sheet
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	LessonIDColumn    string
	TitleColumn       string
	DescriptionColumn string
	LevelColumn       string
	XPColumn          string
	TypeColumn        string // Exercise type, e.g. multiple-choice
	QuestionColumn    string
	AnswerColumn      string
	OptionsColumn     string // Options separated by OptionSeparator
	TranslationColumn string
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// OptionSeparator splits multiple-choice options inside one cell
const OptionSeparator = "|"

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		LessonIDColumn:    "A",
		TitleColumn:       "B",
		DescriptionColumn: "C",
		LevelColumn:       "D",
		XPColumn:          "E",
		TypeColumn:        "F",
		QuestionColumn:    "G",
		AnswerColumn:      "H",
		OptionsColumn:     "I",
		TranslationColumn: "J",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, skip the header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Lessons        int
	Exercises      int
	Skipped        int
	Errors         []string
}

// ErrEmptyCatalog is returned when a file yields no usable lesson
var ErrEmptyCatalog = errors.New("no lessons found")

// ImportLessons reads lessons from an Excel or CSV file.
// Rows sharing a lesson ID become exercises of the same lesson; the lesson fields
// are taken from the first of those rows.
func ImportLessons(config ImportConfig) ([]models.Lesson, *ImportResult, error) {
	var (
		rows [][]string
		err  error
	)

	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	lessons := buildLessons(rows, config, result)
	if len(lessons) == 0 {
		return nil, result, ErrEmptyCatalog
	}
	return lessons, result, nil
}

// Load imports a lesson file and combines it with the default achievements
func Load(path string) (*Catalog, *ImportResult, error) {
	config := DefaultImportConfig()
	config.FilePath = path

	lessons, result, err := ImportLessons(config)
	if err != nil {
		return nil, result, fmt.Errorf("import %s: %w", path, err)
	}
	return Default().WithLessons(lessons), result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildLessons(rows [][]string, config ImportConfig, result *ImportResult) []models.Lesson {
	var order []string
	byID := make(map[string]*models.Lesson)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		if err := processRow(row, config, byID, &order); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Exercises++
	}

	lessons := make([]models.Lesson, 0, len(order))
	for _, id := range order {
		lessons = append(lessons, *byID[id])
	}
	result.Lessons = len(lessons)
	return lessons
}

func processRow(row []string, config ImportConfig, byID map[string]*models.Lesson, order *[]string) error {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	lessonID := cell(config.LessonIDColumn)
	if lessonID == "" {
		return fmt.Errorf("lesson id cannot be empty")
	}

	exercise, err := parseExercise(
		cell(config.TypeColumn),
		cell(config.QuestionColumn),
		cell(config.AnswerColumn),
		cell(config.OptionsColumn),
		cell(config.TranslationColumn),
	)
	if err != nil {
		return err
	}

	lesson, ok := byID[lessonID]
	if !ok {
		title := cell(config.TitleColumn)
		if title == "" {
			return fmt.Errorf("lesson %s needs a title on its first row", lessonID)
		}
		level := parseIntOrDefault(cell(config.LevelColumn), 1, 99, 1)
		lesson = &models.Lesson{
			ID:          lessonID,
			Title:       title,
			Description: cell(config.DescriptionColumn),
			Level:       level,
			XPReward:    parseIntOrDefault(cell(config.XPColumn), 1, 1000, 10),
			IsLocked:    level > 1,
		}
		byID[lessonID] = lesson
		*order = append(*order, lessonID)
	}

	exercise.ID = fmt.Sprintf("%s-%d", lessonID, len(lesson.Exercises)+1)
	lesson.Exercises = append(lesson.Exercises, exercise)
	return nil
}

func parseExercise(typ, question, answer, options, translation string) (models.Exercise, error) {
	exType := models.ExerciseType(strings.ToLower(typ))
	if !exType.Valid() {
		return models.Exercise{}, fmt.Errorf("unknown exercise type %q", typ)
	}
	if question == "" {
		return models.Exercise{}, fmt.Errorf("question cannot be empty")
	}
	if answer == "" {
		return models.Exercise{}, fmt.Errorf("answer cannot be empty")
	}

	ex := models.Exercise{
		Type:          exType,
		Question:      question,
		CorrectAnswer: answer,
		Translation:   translation,
	}

	for _, opt := range strings.Split(options, OptionSeparator) {
		if opt = strings.TrimSpace(opt); opt != "" {
			ex.Options = append(ex.Options, opt)
		}
	}

	if exType == models.MultipleChoice {
		if len(ex.Options) < 2 {
			return models.Exercise{}, fmt.Errorf("multiple-choice needs at least two options")
		}
		if !containsFold(ex.Options, answer) {
			return models.Exercise{}, fmt.Errorf("answer %q is not one of the options", answer)
		}
	}

	return ex, nil
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range
func parseIntInRange(s string, min, max int) (int, error) {
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return min, err
	}
	if val < min {
		return min, nil
	}
	if val > max {
		return max, nil
	}
	return val, nil
}

// Helper function to parse integer with default value
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	if val, err := parseIntInRange(s, min, max); err == nil {
		return val
	}
	return defaultVal
}
