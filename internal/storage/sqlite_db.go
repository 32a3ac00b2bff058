// Package storage persists run summaries so capacity sweeps can be compared
// across layouts and parameters. Tick-level history is never stored.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// InitSQLite opens the database at dbPath, creating the directory and schema
// if needed.
func InitSQLite(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			simulation_id TEXT NOT NULL,
			num_trains INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			random_seed INTEGER NOT NULL,
			sluggishness BOOLEAN NOT NULL DEFAULT 0,
			elapsed INTEGER NOT NULL,
			halt_kind TEXT NOT NULL DEFAULT '',
			halt_train TEXT NOT NULL DEFAULT '',
			halt_block TEXT NOT NULL DEFAULT '',
			avg_circuits_per_hour REAL NOT NULL,
			hourly_capacity REAL NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_simulation_id ON runs(simulation_id);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
