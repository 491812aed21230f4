//go:build integration

package postgres

import (
	"LinkBio-Backend/internal/database"
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("linkbio"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := zap.NewNop()
	db, err := database.Open(dsn, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))
	t.Cleanup(func() { _ = database.Close(db, log) })

	return New(db, log)
}

func TestPostgresStorage(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ads, empty := "ads", ""

	first := domain.NewTrackedEvent("gwf.linkbio.context_ready", base)
	first.SourceLast = &ads
	payload := `{"event_id":"e1"}`
	first.Payload = &payload

	events := []*domain.TrackedEvent{
		first,
		domain.NewTrackedEvent("gwf.linkbio.click_social", base.Add(time.Minute)),
		domain.NewTrackedEvent("gwf.linkbio.context_ready", base.Add(2*time.Minute)),
	}
	events[1].SourceLast = &empty

	// Test save and get
	t.Run("save_and_get", func(t *testing.T) {
		for _, e := range events {
			require.NoError(t, s.SaveEvent(ctx, e))
		}

		got, err := s.GetEvent(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Event, got.Event)
		assert.Equal(t, &payload, got.Payload)
		assert.True(t, base.Equal(got.OccurredAt))
	})

	// Test duplicate id maps to ErrEventExists
	t.Run("duplicate", func(t *testing.T) {
		dup := *first
		assert.ErrorIs(t, s.SaveEvent(ctx, &dup), repository.ErrEventExists)
	})

	// Test missing event
	t.Run("not_found", func(t *testing.T) {
		_, err := s.GetEvent(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrEventNotFound)
	})

	// Test list order and filter
	t.Run("list", func(t *testing.T) {
		got, err := s.ListEvents(ctx, repository.EventFilter{Event: "gwf.linkbio.context_ready"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, events[2].ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)

		from := base.Add(time.Minute)
		got, err = s.ListEvents(ctx, repository.EventFilter{From: &from, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, events[2].ID, got[0].ID)
	})

	// Test aggregations
	t.Run("counts", func(t *testing.T) {
		byEvent, err := s.CountByEvent(ctx, repository.EventFilter{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"gwf.linkbio.context_ready": 2, "gwf.linkbio.click_social": 1}, byEvent)

		bySource, err := s.CountBySource(ctx, repository.EventFilter{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"ads": 1, repository.DirectSource: 2}, bySource)
	})

	require.NoError(t, s.Ping(ctx))
}
