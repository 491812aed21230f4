package mongo

import (
	"LinkBio-Backend/internal/config"
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoStorage реализует интерфейс Storage для MongoDB
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *zap.Logger
}

// Connect подключается к MongoDB и проверяет соединение
func Connect(ctx context.Context, cfg *config.Mongo, log *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("successfully connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))
	return client, nil
}

// New создает storage поверх коллекции событий
func New(client *mongo.Client, cfg *config.Mongo, log *zap.Logger) *MongoStorage {
	return &MongoStorage{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		log:        log,
	}
}

// EnsureIndexes создает индексы для выборок отчетов
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// SaveEvent сохраняет событие в журнал
func (s *MongoStorage) SaveEvent(ctx context.Context, event *domain.TrackedEvent) error {
	_, err := s.collection.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrEventExists
	}
	if err != nil {
		s.log.Error("failed to save event", zap.String("event", event.Event), zap.Error(err))
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// GetEvent получает событие по ID
func (s *MongoStorage) GetEvent(ctx context.Context, id string) (*domain.TrackedEvent, error) {
	var event domain.TrackedEvent
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrEventNotFound
	}
	if err != nil {
		s.log.Error("failed to get event", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// ListEvents возвращает события по фильтру, от новых к старым
func (s *MongoStorage) ListEvents(ctx context.Context, filter repository.EventFilter) ([]*domain.TrackedEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(filter.EffectiveLimit()))

	cur, err := s.collection.Find(ctx, match(filter), opts)
	if err != nil {
		s.log.Error("failed to list events", zap.String("event", filter.Event), zap.Error(err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.TrackedEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// CountByEvent возвращает количество событий по имени события
func (s *MongoStorage) CountByEvent(ctx context.Context, filter repository.EventFilter) (map[string]int64, error) {
	return s.countBy(ctx, filter, "$event")
}

// CountBySource возвращает количество событий по last-touch источнику
func (s *MongoStorage) CountBySource(ctx context.Context, filter repository.EventFilter) (map[string]int64, error) {
	// отсутствующий или пустой source_last считается прямым заходом
	key := bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$source_last", ""}}, ""}},
		repository.DirectSource,
		"$source_last",
	}}
	return s.countBy(ctx, filter, key)
}

// Ping проверяет подключение
func (s *MongoStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStorage) countBy(ctx context.Context, filter repository.EventFilter, key any) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: key},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}

	cur, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		s.log.Error("failed to aggregate events", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate events: %w", err)
	}
	defer cur.Close(ctx)

	var results []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Key] += r.Count
	}
	return counts, nil
}

func match(filter repository.EventFilter) bson.M {
	m := bson.M{}
	if filter.Event != "" {
		m["event"] = filter.Event
	}
	if filter.From != nil || filter.To != nil {
		rng := bson.M{}
		if filter.From != nil {
			rng["$gte"] = *filter.From
		}
		if filter.To != nil {
			rng["$lt"] = *filter.To
		}
		m["occurred_at"] = rng
	}
	return m
}

var _ repository.Storage = (*MongoStorage)(nil)
