package storage

import (
	"context"
	"fmt"

	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
)

// Storage represents the main storage implementation.
type Storage struct {
	kv KVStore
	RoadmapStore
}

// NewStorage opens the configured key-value driver and prepares the roadmap store.
func NewStorage(ctx context.Context, cfg *model.Config, logger *log.Logger) (*Storage, error) {
	kv, err := NewKVStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	return NewStorageWith(kv, cfg.Storage.Key, logger), nil
}

// NewStorageWith wraps an already opened KVStore.
func NewStorageWith(kv KVStore, key string, logger *log.Logger) *Storage {
	return &Storage{
		kv:           kv,
		RoadmapStore: NewRoadmapStorage(kv, key, logger),
	}
}

// Close closes the underlying key-value store.
func (s *Storage) Close() error {
	if err := s.kv.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
