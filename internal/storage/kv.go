// Package storage provides functionality for persisting and retrieving learnmap data.
// This file defines the flat key-value substrate and its drivers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
)

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("key not found")

// DBDriver represents the type of key-value driver
type DBDriver string

const (
	SQLite DBDriver = "sqlite"
	Redis  DBDriver = "redis"
	Memory DBDriver = "memory"
)

// KVStore is an unordered flat key-value store holding string values
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewKVStore opens the key-value driver selected in the configuration
func NewKVStore(ctx context.Context, cfg *model.Config, logger *log.Logger) (KVStore, error) {
	driver, err := validateDBDriver(cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}

	switch driver {
	case SQLite:
		db := &SQLiteDatabase{logger: logger}
		if err := db.Open(filepath.Join(cfg.Storage.DatabaseDir, cfg.Storage.DatabaseFile)); err != nil {
			return nil, err
		}
		if err := db.InitSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case Redis:
		return NewRedisStore(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB, logger)
	default:
		return NewMemoryStore(), nil
	}
}

// validateDBDriver checks if the provided driver is supported
func validateDBDriver(driver string) (DBDriver, error) {
	switch DBDriver(driver) {
	case SQLite, Redis, Memory:
		return DBDriver(driver), nil
	default:
		return "", fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
