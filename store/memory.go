package store

import (
	"context"
	"sort"
	"sync"

	models "github.com/jutlandia/jutlandia-site-go/models"
)

// MemoryEventStore is a map-backed EventStore for tests and for running
// the site without Mongo.
type MemoryEventStore struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]models.Event
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{events: map[int64]models.Event{}}
}

func (s *MemoryEventStore) list(match func(models.Event) bool) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := []models.Event{}
	for _, ev := range s.events {
		if match(ev) {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

func (s *MemoryEventStore) ListUpcoming(ctx context.Context) ([]models.Event, error) {
	return s.list(func(ev models.Event) bool { return !ev.Over }), nil
}

func (s *MemoryEventStore) ListFinished(ctx context.Context) ([]models.Event, error) {
	return s.list(func(ev models.Event) bool { return ev.Over }), nil
}

func (s *MemoryEventStore) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.list(func(models.Event) bool { return true }), nil
}

func (s *MemoryEventStore) Get(ctx context.Context, id int64) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return models.Event{}, ErrNotFound
	}
	return ev, nil
}

func (s *MemoryEventStore) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ev.ID = s.nextID
	s.events[ev.ID] = ev
	return ev, nil
}

func (s *MemoryEventStore) Update(ctx context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.ID]; !ok {
		return ErrNotFound
	}
	s.events[ev.ID] = ev
	return nil
}

func (s *MemoryEventStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events, id)
	return nil
}
