package memory

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/repository"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func event(name string, at time.Time, sourceLast *string) *domain.TrackedEvent {
	e := domain.NewTrackedEvent(name, at)
	e.SourceLast = sourceLast
	return e
}

func str(s string) *string { return &s }

func seed(t *testing.T, s *MemStorage) {
	t.Helper()
	ctx := context.Background()
	events := []*domain.TrackedEvent{
		event("gwf.linkbio.context_ready", base, str("ads")),
		event("gwf.linkbio.click_social", base.Add(time.Minute), str("ads")),
		event("gwf.linkbio.context_ready", base.Add(2*time.Minute), nil),
		event("gwf.linkbio.click_shelf", base.Add(3*time.Minute), str("")),
		event("gwf.linkbio.context_ready", base.Add(4*time.Minute), str("newsletter")),
	}
	for _, e := range events {
		require.NoError(t, s.SaveEvent(ctx, e))
	}
}

func TestMemStorage_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := event("gwf.linkbio.click_social", base, str("ads"))

	// Test save and read back a copy
	t.Run("save_and_get", func(t *testing.T) {
		require.NoError(t, s.SaveEvent(ctx, e))

		got, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e, got)
		assert.NotSame(t, e, got)
	})

	// Test duplicate id
	t.Run("duplicate", func(t *testing.T) {
		err := s.SaveEvent(ctx, e)
		assert.ErrorIs(t, err, repository.ErrEventExists)
		assert.Equal(t, 1, s.Len())
	})

	// Test missing id
	t.Run("not_found", func(t *testing.T) {
		got, err := s.GetEvent(ctx, "missing")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrEventNotFound)
	})
}

func TestMemStorage_ListEvents(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s)

	from := base.Add(time.Minute)
	to := base.Add(4 * time.Minute)

	tests := []struct {
		name   string
		filter repository.EventFilter
		want   []time.Time
	}{
		{
			name:   "all_newest_first",
			filter: repository.EventFilter{},
			want: []time.Time{
				base.Add(4 * time.Minute), base.Add(3 * time.Minute), base.Add(2 * time.Minute),
				base.Add(time.Minute), base,
			},
		},
		{
			name:   "by_event",
			filter: repository.EventFilter{Event: "gwf.linkbio.context_ready"},
			want:   []time.Time{base.Add(4 * time.Minute), base.Add(2 * time.Minute), base},
		},
		{
			name:   "range_from_inclusive_to_exclusive",
			filter: repository.EventFilter{From: &from, To: &to},
			want:   []time.Time{base.Add(3 * time.Minute), base.Add(2 * time.Minute), base.Add(time.Minute)},
		},
		{
			name:   "limit",
			filter: repository.EventFilter{Limit: 2},
			want:   []time.Time{base.Add(4 * time.Minute), base.Add(3 * time.Minute)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := s.ListEvents(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]time.Time, 0, len(events))
			for _, e := range events {
				got = append(got, e.OccurredAt)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemStorage_ListEvents_Ties(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i := 0; i < 3; i++ {
		e := event("gwf.linkbio.click_social", base, nil)
		e.ID = fmt.Sprintf("01H00000000000000000000%03d", i)
		require.NoError(t, s.SaveEvent(ctx, e))
	}

	events, err := s.ListEvents(ctx, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "01H00000000000000000000002", events[0].ID)
	assert.Equal(t, "01H00000000000000000000000", events[2].ID)
}

func TestMemStorage_Counts(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s)

	byEvent, err := s.CountByEvent(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"gwf.linkbio.context_ready": 3,
		"gwf.linkbio.click_social":  1,
		"gwf.linkbio.click_shelf":   1,
	}, byEvent)

	bySource, err := s.CountBySource(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"ads":        2,
		"newsletter": 1,
		"(direct)":   2,
	}, bySource)

	onlyReady, err := s.CountBySource(ctx, repository.EventFilter{Event: "gwf.linkbio.context_ready"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ads": 1, "newsletter": 1, "(direct)": 1}, onlyReady)

	require.NoError(t, s.Ping(ctx))
}
