package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"learnmap/local-app/internal/log"
)

// SQLiteDatabase implements KVStore on a single SQLite table
type SQLiteDatabase struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens a connection to the SQLite database
func (s *SQLiteDatabase) Open(dataSourceName string) error {
	s.logger.Info(context.Background(), "Opening SQLite database", log.Fields{"dbPath": filepath.Base(dataSourceName)})

	// Ensure the directory for the database file exists
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		s.logger.Error(context.Background(), "Failed to create database directory", log.Fields{"error": err, "directory": dbDir})
		return fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
	}

	db, err := sql.Open("sqlite3", dataSourceName+"?_journal_mode=WAL")
	if err != nil {
		s.logger.Error(context.Background(), "Failed to open SQLite database", log.Fields{"error": err})
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		s.logger.Error(context.Background(), "Failed to set SQLite synchronous pragma", log.Fields{"error": err})
		return fmt.Errorf("failed to set SQLite synchronous pragma: %w", err)
	}

	// Verify the connection
	if err := db.Ping(); err != nil {
		db.Close()
		s.logger.Error(context.Background(), "Failed to verify database connection", log.Fields{"error": err})
		return fmt.Errorf("failed to verify database connection: %w", err)
	}

	s.db = db
	s.logger.Info(context.Background(), "SQLite database opened successfully", nil)
	return nil
}

// InitSchema creates the key-value table
func (s *SQLiteDatabase) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated DATETIME NOT NULL
		);
	`)
	if err != nil {
		s.logger.Error(ctx, "Failed to create tables", log.Fields{"error": err})
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Get returns the value stored under key
func (s *SQLiteDatabase) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to read key", log.Fields{"error": err, "key": key})
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *SQLiteDatabase) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated`,
		key, value, time.Now(),
	)
	if err != nil {
		s.logger.Error(ctx, "Failed to write key", log.Fields{"error": err, "key": key})
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	s.logger.Debug(ctx, "Key written", log.Fields{"key": key, "bytes": len(value)})
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *SQLiteDatabase) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		s.logger.Error(ctx, "Failed to delete key", log.Fields{"error": err, "key": key})
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close closes the connection to the SQLite database
func (s *SQLiteDatabase) Close() error {
	s.logger.Info(context.Background(), "Closing SQLite database", nil)
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error(context.Background(), "Failed to close SQLite database", log.Fields{"error": err})
			return fmt.Errorf("failed to close SQLite database: %w", err)
		}
	}
	return nil
}
