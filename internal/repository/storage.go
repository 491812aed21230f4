package repository

import (
	"LinkBio-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventExists   = errors.New("event already exists")
)

// DirectSource подставляется в отчетах вместо пустого last-touch источника
const DirectSource = "(direct)"

// DefaultListLimit ограничение выборки, если лимит не задан
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// EventFilter параметры выборки журнала событий
type EventFilter struct {
	Event string     // точное имя события, пусто - все
	From  *time.Time // включительно
	To    *time.Time // не включительно
	Limit int
}

// EffectiveLimit возвращает лимит с учетом значений по умолчанию
func (f EventFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Matches проверяет событие на соответствие фильтру
func (f EventFilter) Matches(e *domain.TrackedEvent) bool {
	if f.Event != "" && e.Event != f.Event {
		return false
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.OccurredAt.Before(*f.To) {
		return false
	}
	return true
}

type Storage interface {
	// Event log methods
	SaveEvent(ctx context.Context, event *domain.TrackedEvent) error
	GetEvent(ctx context.Context, id string) (*domain.TrackedEvent, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*domain.TrackedEvent, error)

	// Aggregations
	CountByEvent(ctx context.Context, filter EventFilter) (map[string]int64, error)
	CountBySource(ctx context.Context, filter EventFilter) (map[string]int64, error)

	Ping(ctx context.Context) error
}
