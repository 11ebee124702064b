package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store holds the SQLite handle for users and finished rounds.
type Store struct {
	DB *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		player_id INTEGER NOT NULL,
		difficulty TEXT NOT NULL,
		category TEXT NOT NULL,
		word TEXT NOT NULL,
		won INTEGER NOT NULL,
		wrong_count INTEGER NOT NULL,
		guessed_letters TEXT DEFAULT '',
		finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(player_id) REFERENCES users(id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_difficulty ON rounds(difficulty);`,
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("Warning: couldn't enable WAL mode: %v", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		log.Printf("Warning: couldn't set busy timeout: %v", err)
	}

	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("create schema: %w\nQuery: %s", err, stmt)
		}
	}

	return &Store{DB: conn}, nil
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
