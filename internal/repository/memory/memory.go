package memory

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/repository"
	"context"
	"sort"
	"sync"
)

type MemStorage struct {
	mu     sync.RWMutex
	events map[string]*domain.TrackedEvent
}

func New() *MemStorage {
	return &MemStorage{
		events: make(map[string]*domain.TrackedEvent),
	}
}

// --- Event Methods ---

func (s *MemStorage) SaveEvent(_ context.Context, event *domain.TrackedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[event.ID]; exists {
		return repository.ErrEventExists
	}
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *MemStorage) GetEvent(_ context.Context, id string) (*domain.TrackedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *event
	return &cp, nil
}

// ListEvents возвращает события от новых к старым
func (s *MemStorage) ListEvents(_ context.Context, filter repository.EventFilter) ([]*domain.TrackedEvent, error) {
	matched := s.matching(filter)

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	if limit := filter.EffectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemStorage) CountByEvent(_ context.Context, filter repository.EventFilter) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range s.matching(filter) {
		counts[e.Event]++
	}
	return counts, nil
}

func (s *MemStorage) CountBySource(_ context.Context, filter repository.EventFilter) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range s.matching(filter) {
		source := repository.DirectSource
		if e.SourceLast != nil && *e.SourceLast != "" {
			source = *e.SourceLast
		}
		counts[source]++
	}
	return counts, nil
}

func (s *MemStorage) Ping(_ context.Context) error {
	return nil
}

// Len возвращает количество сохраненных событий
func (s *MemStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *MemStorage) matching(filter repository.EventFilter) []*domain.TrackedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.TrackedEvent
	for _, e := range s.events {
		if filter.Matches(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

var _ repository.Storage = (*MemStorage)(nil)
