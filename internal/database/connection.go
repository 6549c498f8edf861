package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config selects and locates the database backend
type Config struct {
	// Type is "sqlite" or "postgres"
	Type string
	// Path is the SQLite database file
	Path string
	// URL is the PostgreSQL connection string
	URL string
}

// Connect opens the configured database and makes sure the schema exists
func Connect(cfg Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Type {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("connect to sqlite: %w", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []struct {
	table string
	ddl   string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			bio TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"user_passwords", `
		CREATE TABLE IF NOT EXISTS user_passwords (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			password_hash TEXT NOT NULL
		)`},
	{"user_progress", `
		CREATE TABLE IF NOT EXISTS user_progress (
			user_id TEXT PRIMARY KEY,
			current_level INTEGER NOT NULL DEFAULT 1,
			total_xp INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			last_completed_date TIMESTAMP,
			daily_goal INTEGER NOT NULL DEFAULT 20,
			daily_xp INTEGER NOT NULL DEFAULT 0
		)`},
	{"user_lessons", `
		CREATE TABLE IF NOT EXISTS user_lessons (
			user_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			is_completed BOOLEAN NOT NULL DEFAULT false,
			is_locked BOOLEAN NOT NULL DEFAULT true,
			completed_at TIMESTAMP,
			PRIMARY KEY (user_id, lesson_id)
		)`},
	{"user_achievements", `
		CREATE TABLE IF NOT EXISTS user_achievements (
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			is_unlocked BOOLEAN NOT NULL DEFAULT false,
			unlocked_at TIMESTAMP,
			PRIMARY KEY (user_id, achievement_id)
		)`},
	{"onboarding", `
		CREATE TABLE IF NOT EXISTS onboarding (
			user_id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			daily_goal INTEGER NOT NULL
		)`},
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	for _, t := range schema {
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.table, err)
		}
	}
	return nil
}
