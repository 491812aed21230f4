package postgres

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Event Methods ---

// SaveEvent сохраняет событие в журнал
func (s *PostgresStorage) SaveEvent(ctx context.Context, event *domain.TrackedEvent) error {
	err := s.db.WithContext(ctx).Create(event).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrEventExists
	}
	if err != nil {
		s.log.Error("failed to save event", zap.String("event", event.Event), zap.Error(err))
		return fmt.Errorf("failed to save event: %w", err)
	}

	s.log.Debug("saved event", zap.String("id", event.ID), zap.String("event", event.Event))
	return nil
}

// GetEvent получает событие по ID
func (s *PostgresStorage) GetEvent(ctx context.Context, id string) (*domain.TrackedEvent, error) {
	var event domain.TrackedEvent

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrEventNotFound
	}
	if err != nil {
		s.log.Error("failed to get event", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// ListEvents возвращает события по фильтру, от новых к старым
func (s *PostgresStorage) ListEvents(ctx context.Context, filter repository.EventFilter) ([]*domain.TrackedEvent, error) {
	var events []*domain.TrackedEvent

	err := s.filtered(ctx, filter).
		Order("occurred_at DESC, id DESC").
		Limit(filter.EffectiveLimit()).
		Find(&events).Error
	if err != nil {
		s.log.Error("failed to list events", zap.String("event", filter.Event), zap.Error(err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// CountByEvent возвращает количество событий по имени события
func (s *PostgresStorage) CountByEvent(ctx context.Context, filter repository.EventFilter) (map[string]int64, error) {
	var results []struct {
		Event string `gorm:"column:event"`
		Count int64  `gorm:"column:count"`
	}

	err := s.filtered(ctx, filter).
		Select("event, count(*) as count").
		Group("event").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to count events", zap.Error(err))
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Event] = r.Count
	}
	return counts, nil
}

// CountBySource возвращает количество событий по last-touch источнику
func (s *PostgresStorage) CountBySource(ctx context.Context, filter repository.EventFilter) (map[string]int64, error) {
	var results []struct {
		Source string `gorm:"column:source"`
		Count  int64  `gorm:"column:count"`
	}

	err := s.filtered(ctx, filter).
		Select("COALESCE(NULLIF(source_last, ''), ?) as source, count(*) as count", repository.DirectSource).
		Group("source").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to count events by source", zap.Error(err))
		return nil, fmt.Errorf("failed to count events by source: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Source] += r.Count
	}
	return counts, nil
}

// Ping проверяет подключение к базе
func (s *PostgresStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// --- Helper Methods ---

// filtered строит запрос с условиями фильтра
func (s *PostgresStorage) filtered(ctx context.Context, filter repository.EventFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&domain.TrackedEvent{})
	if filter.Event != "" {
		q = q.Where("event = ?", filter.Event)
	}
	if filter.From != nil {
		q = q.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("occurred_at < ?", *filter.To)
	}
	return q
}

var _ repository.Storage = (*PostgresStorage)(nil)
