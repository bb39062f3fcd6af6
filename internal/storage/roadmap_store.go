package storage

import (
	"context"
	"errors"
	"fmt"

	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/transfer"
)

// ErrCorruptSnapshot is returned when the stored roadmap cannot be decoded.
var ErrCorruptSnapshot = errors.New("stored roadmap snapshot is corrupted")

// RoadmapStore persists whole roadmaps under a single key.
type RoadmapStore interface {
	RoadmapLoad(ctx context.Context) (model.Roadmap, bool, error)
	RoadmapSave(ctx context.Context, r model.Roadmap) error
}

// RoadmapStorage implements RoadmapStore on top of a KVStore.
type RoadmapStorage struct {
	kv     KVStore
	key    string
	logger *log.Logger
}

// NewRoadmapStorage creates a RoadmapStorage writing under key.
func NewRoadmapStorage(kv KVStore, key string, logger *log.Logger) *RoadmapStorage {
	return &RoadmapStorage{kv: kv, key: key, logger: logger}
}

// RoadmapLoad reads the stored snapshot. The boolean is false when nothing has been stored yet.
func (s *RoadmapStorage) RoadmapLoad(ctx context.Context) (model.Roadmap, bool, error) {
	text, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info(ctx, "No stored roadmap", log.Fields{"key": s.key})
		return model.Roadmap{}, false, nil
	}
	if err != nil {
		return model.Roadmap{}, false, fmt.Errorf("failed to read roadmap: %w", err)
	}

	r, err := transfer.Parse(text, transfer.Options{})
	if err != nil {
		s.logger.Error(ctx, "Stored roadmap is unreadable", log.Fields{"error": err, "key": s.key})
		return model.Roadmap{}, true, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	s.logger.Info(ctx, "Roadmap loaded", log.Fields{"key": s.key, "milestones": len(r.Milestones)})
	return r, true, nil
}

// RoadmapSave serializes the full roadmap and writes it under the key.
func (s *RoadmapStorage) RoadmapSave(ctx context.Context, r model.Roadmap) error {
	text, err := transfer.Export(r)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, text); err != nil {
		return fmt.Errorf("failed to save roadmap: %w", err)
	}
	return nil
}
