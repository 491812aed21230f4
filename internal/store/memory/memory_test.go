package memory

import (
	"LinkBio-Backend/internal/report"
	"LinkBio-Backend/internal/store"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Value string `json:"value"`
}

func TestDurable(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	// Test round trip and expiry
	t.Run("expires_after_ttl", func(t *testing.T) {
		d := NewDurable(nil, clock)
		require.NoError(t, d.Write("k", record{Value: "a"}, 2, nil))

		var out record
		require.True(t, d.Read("k", &out))
		assert.Equal(t, "a", out.Value)

		_, expires, ok := d.Raw("k")
		require.True(t, ok)
		assert.Equal(t, now.Add(48*time.Hour), expires)

		now = now.Add(48 * time.Hour)
		assert.False(t, d.Read("k", &out))
	})

	// Test delete leaves an expired empty object
	t.Run("delete", func(t *testing.T) {
		d := NewDurable(nil, clock)
		require.NoError(t, d.Write("k", record{Value: "a"}, 90, nil))
		require.NoError(t, d.Delete("k", &store.Options{Path: "/"}))

		raw, _, ok := d.Raw("k")
		require.True(t, ok)
		assert.Equal(t, "%7B%7D", raw)

		var out record
		assert.False(t, d.Read("k", &out))
	})

	// Test malformed raw value
	t.Run("malformed", func(t *testing.T) {
		rec := &report.Recorder{}
		d := NewDurable(rec, clock)
		d.SetRaw("k", "null", time.Time{})

		var out record
		assert.False(t, d.Read("k", &out))
		assert.Equal(t, 1, rec.Count(report.MalformedValue))
	})
}

func TestScoped(t *testing.T) {
	// Test round trip
	t.Run("write_read_delete", func(t *testing.T) {
		s := NewScoped(nil, 0)
		require.NoError(t, s.Write("k", record{Value: "a"}))

		var out record
		require.True(t, s.Read("k", &out))
		assert.Equal(t, "a", out.Value)

		require.NoError(t, s.Delete("k"))
		assert.False(t, s.Read("k", &out))
	})

	// Test quota counts other keys but not the one being replaced
	t.Run("quota", func(t *testing.T) {
		rec := &report.Recorder{}
		s := NewScoped(rec, 64)

		require.NoError(t, s.Write("a", record{Value: strings.Repeat("x", 20)}))
		require.NoError(t, s.Write("a", record{Value: strings.Repeat("y", 30)}))

		err := s.Write("b", record{Value: strings.Repeat("z", 30)})
		assert.ErrorIs(t, err, store.ErrQuotaExceeded)
		assert.Equal(t, 1, rec.Count(report.QuotaExceeded))

		var out record
		assert.False(t, s.Read("b", &out))
		require.True(t, s.Read("a", &out))
		assert.Equal(t, strings.Repeat("y", 30), out.Value)
	})
}
