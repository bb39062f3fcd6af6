// Package data holds the roadmap store: the single source of truth for the
// roadmap, its mutations, and their persistence.
package data

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"learnmap/local-app/internal/event"
	"learnmap/local-app/internal/ident"
	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/notify"
	"learnmap/local-app/internal/reorder"
	"learnmap/local-app/internal/storage"
	"learnmap/local-app/internal/transfer"
)

//go:embed default_roadmap.json
var defaultRoadmapJSON string

// ErrClosed is returned by ImportData once the store is closed.
var ErrClosed = errors.New("roadmap store is closed")

// DefaultRoadmap returns the built-in roadmap used when nothing has been stored.
func DefaultRoadmap() model.Roadmap {
	r, err := transfer.Parse(defaultRoadmapJSON, transfer.Options{Strict: true})
	if err != nil {
		panic(fmt.Sprintf("embedded default roadmap is invalid: %v", err))
	}
	return r
}

// Deps are the collaborators of a Store. Nil members get inert defaults,
// except Storage which is required.
type Deps struct {
	Storage  storage.RoadmapStore
	Events   *event.EventManager
	Notifier notify.Notifier
	IDs      *ident.Generator
	Logger   *log.Logger
	// Strict enables full validation of imported roadmaps.
	Strict bool
}

// Store owns the roadmap. Every mutation replaces the held value, persists it,
// then reports to subscribers and the notifier outside the lock.
type Store struct {
	mu      sync.Mutex
	roadmap model.Roadmap
	closed  bool
	// dirty is set while the held roadmap differs from the last successful save.
	dirty bool

	storage  storage.RoadmapStore
	events   *event.EventManager
	notifier notify.Notifier
	ids      *ident.Generator
	logger   *log.Logger
	strict   bool
}

// change describes a committed mutation.
type change struct {
	kind    event.EventType
	subject string
	note    *notify.Notification
}

// NewStore loads the persisted roadmap, falling back to the default one when
// nothing is stored or the stored snapshot is unreadable.
func NewStore(ctx context.Context, deps Deps) (*Store, error) {
	if deps.Storage == nil {
		return nil, errors.New("roadmap store requires a storage backend")
	}
	s := &Store{
		storage:  deps.Storage,
		events:   deps.Events,
		notifier: deps.Notifier,
		ids:      deps.IDs,
		logger:   deps.Logger,
		strict:   deps.Strict,
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	if s.events == nil {
		s.events = event.NewEventManager(s.logger)
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.ids == nil {
		s.ids = ident.NewGenerator()
	}

	r, found, err := s.storage.RoadmapLoad(ctx)
	switch {
	case errors.Is(err, storage.ErrCorruptSnapshot):
		s.logger.Warn(ctx, "Falling back to default roadmap", log.Fields{"error": err})
		s.roadmap = DefaultRoadmap()
		s.notifier.Notify(notify.Notification{
			Title:       "Error Loading Data",
			Description: "Could not load saved data. Using default roadmap.",
			Severity:    notify.Destructive,
		})
	case err != nil:
		return nil, fmt.Errorf("failed to load roadmap: %w", err)
	case !found:
		s.roadmap = DefaultRoadmap()
		if err := s.storage.RoadmapSave(ctx, s.roadmap); err != nil {
			s.logger.Error(ctx, "Failed to store default roadmap", log.Fields{"error": err})
			s.dirty = true
		}
	default:
		s.roadmap = r
	}

	return s, nil
}

// mutate runs fn against the current roadmap under the lock. When fn reports
// a change the result becomes the new roadmap and is persisted before the
// lock is released. Subscribers and the notifier run afterwards.
func (s *Store) mutate(fn func(r model.Roadmap) (model.Roadmap, change, bool)) bool {
	ctx := context.Background()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	next, c, ok := fn(s.roadmap)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.roadmap = next
	saveErr := s.storage.RoadmapSave(ctx, next)
	s.dirty = saveErr != nil
	snapshot := next.Clone()
	s.mu.Unlock()

	s.logger.Debug(ctx, "Roadmap changed", log.Fields{"event": c.kind.String(), "subject": c.subject})
	if c.note != nil {
		s.notifier.Notify(*c.note)
	}
	if saveErr != nil {
		s.logger.Error(ctx, "Failed to save roadmap", log.Fields{"error": saveErr, "event": c.kind.String()})
		s.notifier.Notify(notify.Notification{
			Title:       "Save Failed",
			Description: fmt.Sprintf("Your change is kept for this session but could not be saved: %v", saveErr),
			Severity:    notify.Destructive,
		})
	}
	s.events.Publish(event.Event{Type: c.kind, Snapshot: snapshot, Subject: c.subject})
	return true
}

func milestoneIndex(r model.Roadmap, id string) int {
	return slices.IndexFunc(r.Milestones, func(m model.Milestone) bool { return m.ID == id })
}

func resourceIndex(m model.Milestone, id string) int {
	return slices.IndexFunc(m.Resources, func(r model.Resource) bool { return r.ID == id })
}

// withMilestone returns r with the milestone at i replaced; other milestones are shared.
func withMilestone(r model.Roadmap, i int, m model.Milestone) model.Roadmap {
	r.Milestones = slices.Clone(r.Milestones)
	r.Milestones[i] = m
	return r
}

// withResource returns m with the resource at i replaced.
func withResource(m model.Milestone, i int, res model.Resource) model.Milestone {
	m.Resources = slices.Clone(m.Resources)
	m.Resources[i] = res
	return m
}

// AddMilestone appends a new, expanded milestone with no resources and returns its id.
func (s *Store) AddMilestone(in model.MilestoneInput) string {
	in = in.Clean()
	id := s.ids.New()
	added := s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		m := model.Milestone{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			IsExpanded:  true,
			Resources:   []model.Resource{},
		}
		r.Milestones = append(slices.Clone(r.Milestones), m)
		return r, change{
			kind:    event.MilestoneAdded,
			subject: id,
			note: &notify.Notification{
				Title:       "Milestone Added",
				Description: fmt.Sprintf("%q has been added to your roadmap.", in.Title),
			},
		}, true
	})
	if !added {
		return ""
	}
	return id
}

// UpdateMilestone merges patch into the milestone. Unknown ids are ignored.
func (s *Store) UpdateMilestone(id string, patch model.MilestonePatch) bool {
	if patch.Empty() {
		return false
	}
	return s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		i := milestoneIndex(r, id)
		if i < 0 {
			return r, change{}, false
		}
		return withMilestone(r, i, patch.Apply(r.Milestones[i])), change{kind: event.MilestoneUpdated, subject: id}, true
	})
}

// DeleteMilestone removes the milestone and its resources. Unknown ids are ignored.
func (s *Store) DeleteMilestone(id string) bool {
	return s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		i := milestoneIndex(r, id)
		if i < 0 {
			return r, change{}, false
		}
		r.Milestones = slices.Delete(slices.Clone(r.Milestones), i, i+1)
		return r, change{
			kind:    event.MilestoneDeleted,
			subject: id,
			note: &notify.Notification{
				Title:       "Milestone Deleted",
				Description: "The milestone has been removed from your roadmap.",
			},
		}, true
	})
}

// MoveMilestone moves the milestone at from so that it ends up at index to.
func (s *Store) MoveMilestone(from, to int) bool {
	return s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		moved, ok := reorder.Move(r.Milestones, from, to)
		if !ok {
			return r, change{}, false
		}
		subject := moved[to].ID
		r.Milestones = moved
		return r, change{kind: event.MilestoneMoved, subject: subject}, true
	})
}

// AddResource appends a new resource to a milestone and returns its id.
// The boolean is false when the milestone does not exist.
func (s *Store) AddResource(milestoneID string, in model.ResourceInput) (string, bool) {
	in = in.Clean()
	id := s.ids.New()
	added := s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		i := milestoneIndex(r, milestoneID)
		if i < 0 {
			return r, change{}, false
		}
		res := model.Resource{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			URL:         in.URL,
			Type:        in.Type,
			Difficulty:  in.Difficulty,
			Tags:        in.Tags,
		}
		m := r.Milestones[i]
		m.Resources = append(slices.Clone(m.Resources), res)
		return withMilestone(r, i, m), change{
			kind:    event.ResourceAdded,
			subject: id,
			note: &notify.Notification{
				Title:       "Resource Added",
				Description: fmt.Sprintf("%q has been added.", in.Title),
			},
		}, true
	})
	if !added {
		return "", false
	}
	return id, true
}

// updateResource applies fn to one resource of one milestone.
func (s *Store) updateResource(milestoneID, resourceID string, fn func(model.Resource) model.Resource) bool {
	return s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		i := milestoneIndex(r, milestoneID)
		if i < 0 {
			return r, change{}, false
		}
		m := r.Milestones[i]
		j := resourceIndex(m, resourceID)
		if j < 0 {
			return r, change{}, false
		}
		m = withResource(m, j, fn(m.Resources[j]))
		return withMilestone(r, i, m), change{kind: event.ResourceUpdated, subject: resourceID}, true
	})
}

// UpdateResource merges patch into a resource of the given milestone.
func (s *Store) UpdateResource(milestoneID, resourceID string, patch model.ResourcePatch) bool {
	return s.updateResource(milestoneID, resourceID, patch.Apply)
}

// DeleteResource removes a resource from the given milestone.
func (s *Store) DeleteResource(milestoneID, resourceID string) bool {
	return s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		i := milestoneIndex(r, milestoneID)
		if i < 0 {
			return r, change{}, false
		}
		m := r.Milestones[i]
		j := resourceIndex(m, resourceID)
		if j < 0 {
			return r, change{}, false
		}
		m.Resources = slices.Delete(slices.Clone(m.Resources), j, j+1)
		return withMilestone(r, i, m), change{
			kind:    event.ResourceDeleted,
			subject: resourceID,
			note: &notify.Notification{
				Title:       "Resource Deleted",
				Description: "The resource has been removed.",
			},
		}, true
	})
}

// ToggleMilestoneExpansion flips the expanded flag of a milestone.
func (s *Store) ToggleMilestoneExpansion(id string) bool {
	return s.mutate(func(r model.Roadmap) (model.Roadmap, change, bool) {
		i := milestoneIndex(r, id)
		if i < 0 {
			return r, change{}, false
		}
		m := r.Milestones[i]
		m.IsExpanded = !m.IsExpanded
		return withMilestone(r, i, m), change{kind: event.MilestoneUpdated, subject: id}, true
	})
}

// ToggleResourceCompletion flips the completed flag of a resource.
func (s *Store) ToggleResourceCompletion(milestoneID, resourceID string) bool {
	return s.updateResource(milestoneID, resourceID, func(res model.Resource) model.Resource {
		res.Completed = !res.Completed
		return res
	})
}

// ToggleResourceFavorite flips the favorite flag of a resource.
func (s *Store) ToggleResourceFavorite(milestoneID, resourceID string) bool {
	return s.updateResource(milestoneID, resourceID, func(res model.Resource) model.Resource {
		res.Favorite = !res.Favorite
		return res
	})
}

// ExportData returns the roadmap as indented JSON.
func (s *Store) ExportData() (string, error) {
	return transfer.Export(s.Snapshot())
}

// ImportData replaces the roadmap with the one encoded in text. On failure
// the roadmap is left untouched and the returned error is a *transfer.ImportError.
func (s *Store) ImportData(text string) error {
	r, err := transfer.Parse(text, transfer.Options{Strict: s.strict})
	if err != nil {
		s.logger.Warn(context.Background(), "Roadmap import rejected", log.Fields{"error": err})
		s.notifier.Notify(notify.Notification{
			Title:       "Import Failed",
			Description: "Could not import data. Please check the JSON format.",
			Severity:    notify.Destructive,
		})
		return err
	}

	applied := s.mutate(func(model.Roadmap) (model.Roadmap, change, bool) {
		return r, change{
			kind: event.RoadmapImported,
			note: &notify.Notification{
				Title:       "Data Imported",
				Description: "Roadmap data has been successfully imported.",
			},
		}, true
	})
	if !applied {
		s.logger.Warn(context.Background(), "Roadmap import ignored", log.Fields{"error": ErrClosed})
		return fmt.Errorf("import not applied: %w", ErrClosed)
	}
	return nil
}

// Reset replaces the roadmap with the built-in default.
func (s *Store) Reset() bool {
	return s.mutate(func(model.Roadmap) (model.Roadmap, change, bool) {
		return DefaultRoadmap(), change{
			kind: event.RoadmapReset,
			note: &notify.Notification{
				Title:       "Roadmap Reset",
				Description: "The default roadmap has been restored.",
			},
		}, true
	})
}

// Snapshot returns a deep copy of the current roadmap.
func (s *Store) Snapshot() model.Roadmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roadmap.Clone()
}

// Milestone returns a copy of the milestone with the given id.
func (s *Store) Milestone(id string) (model.Milestone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := milestoneIndex(s.roadmap, id)
	if i < 0 {
		return model.Milestone{}, false
	}
	return s.roadmap.Milestones[i].Clone(), true
}

// MilestoneIndex returns the position of the milestone, or -1.
func (s *Store) MilestoneIndex(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return milestoneIndex(s.roadmap, id)
}

// Subscribe registers a listener for every committed change and returns a
// function that removes it.
func (s *Store) Subscribe(listener event.EventHandler) func() {
	return s.events.SubscribeAll(listener)
}

// Close writes the current roadmap if its last save failed. Later mutations
// are ignored.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.dirty {
		return nil
	}
	if err := s.storage.RoadmapSave(ctx, s.roadmap); err != nil {
		return fmt.Errorf("failed to save roadmap on close: %w", err)
	}
	return nil
}
