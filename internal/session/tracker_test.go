package session

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/identity"
	"LinkBio-Backend/internal/report"
	"LinkBio-Backend/internal/store"
	"LinkBio-Backend/internal/store/memory"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// stubForeign returns fixed GA4 ids
type stubForeign struct {
	client  *string
	session *string
}

func (s *stubForeign) ClientID() *string  { return s.client }
func (s *stubForeign) SessionID() *string { return s.session }

func str(s string) *string { return &s }

func nav(t *testing.T, raw, referrer string) domain.Navigation {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return domain.Navigation{URL: u, Referrer: referrer}
}

func setupTracker(foreign ForeignIDs) (*Tracker, *memory.Scoped, *fakeClock) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	st := memory.NewScoped(&report.Recorder{}, 0)
	ids := identity.Func(func() string { return "00000000-0000-4000-8000-000000000001" })
	tr := NewTracker(st, ids, foreign, Config{IDPrefix: DefaultIDPrefix}, zap.NewNop(), WithClock(clock.Now))
	return tr, st, clock
}

func TestTracker_Touch(t *testing.T) {
	// Test new session
	t.Run("creates_session", func(t *testing.T) {
		tr, _, clock := setupTracker(&stubForeign{client: str("111.222"), session: str("1700000000")})

		rec := tr.Touch(nav(t, "https://bio.example.com/?utm_source=ads", "https://instagram.com/"))

		assert.Equal(t, "gwf_session_00000000-0000-4000-8000-000000000001", rec.ID)
		assert.Equal(t, clock.Now().UnixMilli(), rec.StartedAt)
		assert.Equal(t, 1, rec.PageViewCount)
		assert.Equal(t, int64(0), rec.ElapsedSeconds)
		assert.Equal(t, "https://bio.example.com/?utm_source=ads", rec.CurrentURL)
		assert.Equal(t, str("https://instagram.com/"), rec.ReferrerURL)
		assert.Equal(t, str("111.222"), rec.ForeignClientID)
		assert.Equal(t, str("1700000000"), rec.ForeignSessionID)

		loaded := tr.Load()
		require.NotNil(t, loaded)
		assert.Equal(t, rec, *loaded)
	})

	// Test second load five seconds later
	t.Run("second_load", func(t *testing.T) {
		tr, _, clock := setupTracker(nil)

		first := tr.Touch(nav(t, "https://bio.example.com/", ""))
		clock.Advance(5000 * time.Millisecond)
		second := tr.Touch(nav(t, "https://bio.example.com/stores", "https://bio.example.com/"))

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.StartedAt, second.StartedAt)
		assert.Equal(t, 2, second.PageViewCount)
		assert.Equal(t, int64(5), second.ElapsedSeconds)
		assert.Equal(t, "https://bio.example.com/stores", second.CurrentURL)
		assert.Equal(t, str("https://bio.example.com/"), second.ReferrerURL)
		assert.Nil(t, first.ReferrerURL)
	})

	// Test page count equals number of loads
	t.Run("counts_every_load", func(t *testing.T) {
		tr, _, clock := setupTracker(nil)

		var rec domain.SessionRecord
		for i := 0; i < 7; i++ {
			rec = tr.Touch(nav(t, "https://bio.example.com/", ""))
			clock.Advance(1500 * time.Millisecond)
		}

		assert.Equal(t, 7, rec.PageViewCount)
		assert.Equal(t, int64(9), rec.ElapsedSeconds)
	})

	// Test elapsed never goes negative or backwards
	t.Run("clock_goes_back", func(t *testing.T) {
		tr, _, clock := setupTracker(nil)

		tr.Touch(nav(t, "https://bio.example.com/", ""))
		clock.Advance(10 * time.Second)
		rec := tr.Touch(nav(t, "https://bio.example.com/", ""))
		require.Equal(t, int64(10), rec.ElapsedSeconds)

		clock.Advance(-time.Minute)
		rec = tr.Touch(nav(t, "https://bio.example.com/", ""))
		assert.Equal(t, int64(10), rec.ElapsedSeconds)
		assert.Equal(t, 3, rec.PageViewCount)
	})

	// Test foreign ids are backfilled once they appear
	t.Run("backfills_foreign_ids", func(t *testing.T) {
		foreign := &stubForeign{}
		tr, _, _ := setupTracker(foreign)

		rec := tr.Touch(nav(t, "https://bio.example.com/", ""))
		assert.Nil(t, rec.ForeignClientID)
		assert.Nil(t, rec.ForeignSessionID)

		foreign.client = str("111.222")
		foreign.session = str("1700000000")
		rec = tr.Touch(nav(t, "https://bio.example.com/", ""))
		assert.Equal(t, str("111.222"), rec.ForeignClientID)
		assert.Equal(t, str("1700000000"), rec.ForeignSessionID)

		// already set values are kept
		foreign.client = str("999.999")
		rec = tr.Touch(nav(t, "https://bio.example.com/", ""))
		assert.Equal(t, str("111.222"), rec.ForeignClientID)
	})

	// Test record without id is replaced
	t.Run("invalid_record_replaced", func(t *testing.T) {
		tr, st, clock := setupTracker(nil)
		require.NoError(t, st.Write(DefaultKey, domain.SessionRecord{PageViewCount: 40, StartedAt: 1}))

		rec := tr.Touch(nav(t, "https://bio.example.com/", ""))

		assert.True(t, strings.HasPrefix(rec.ID, DefaultIDPrefix))
		assert.Equal(t, 1, rec.PageViewCount)
		assert.Equal(t, clock.Now().UnixMilli(), rec.StartedAt)
	})

	// Test malformed record is replaced
	t.Run("malformed_record_replaced", func(t *testing.T) {
		tr, st, _ := setupTracker(nil)
		st.SetRaw(DefaultKey, "%7B%22id%22")

		rec := tr.Touch(nav(t, "https://bio.example.com/", ""))

		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, 1, rec.PageViewCount)
	})

	// Test quota failure still returns a record
	t.Run("write_dropped", func(t *testing.T) {
		recorder := &report.Recorder{}
		st := memory.NewScoped(recorder, 10)
		tr := NewTracker(st, identity.NewGenerator(1), nil, Config{}, nil)

		rec := tr.Touch(nav(t, "https://bio.example.com/", ""))

		assert.Equal(t, 1, rec.PageViewCount)
		assert.Nil(t, tr.Load())
		assert.Equal(t, 1, recorder.Count(report.QuotaExceeded))
	})
}

func TestTracker_LongURLs(t *testing.T) {
	location := "https://bio.example.com/?utm_source=ads&gclid=" + strings.Repeat("a", 5000)
	ref := "https://www.google.com/aclk?sa=l&ai=" + strings.Repeat("b", 5000)

	// Test record is shortened to fit the cookie and the session survives
	t.Run("fits_cookie_quota", func(t *testing.T) {
		recorder := &report.Recorder{}
		st := memory.NewScoped(recorder, DefaultMaxBytes)
		clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		tr := NewTracker(st, identity.NewGenerator(1), nil, Config{IDPrefix: DefaultIDPrefix}, nil, WithClock(clock.Now))

		first := tr.Touch(nav(t, location, ref))
		clock.Advance(3 * time.Second)
		second := tr.Touch(nav(t, location, ref))

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 2, second.PageViewCount)
		assert.Equal(t, int64(3), second.ElapsedSeconds)
		assert.Equal(t, str("https://www.google.com/aclk"), second.ReferrerURL)
		assert.True(t, strings.HasPrefix(second.CurrentURL, "https://bio.example.com/?utm_source=ads&gclid="))
		assert.Less(t, len(second.CurrentURL), len(location))
		assert.Zero(t, recorder.Count(report.QuotaExceeded))

		loaded := tr.Load()
		require.NotNil(t, loaded)
		assert.Equal(t, second, *loaded)
	})

	// Test referrer is dropped when nothing else fits
	t.Run("tight_limit", func(t *testing.T) {
		st := memory.NewScoped(nil, 0)
		tr := NewTracker(st, identity.NewGenerator(1), nil, Config{IDPrefix: DefaultIDPrefix, MaxBytes: 400}, nil)

		rec := tr.Touch(nav(t, location, ref))

		encoded, err := store.Encode(rec)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(DefaultKey)+len(encoded), 400)
		assert.Equal(t, 1, rec.PageViewCount)
		require.NotNil(t, tr.Load())
	})

	// Test short URLs are stored untouched
	t.Run("short_urls_untouched", func(t *testing.T) {
		tr, _, _ := setupTracker(nil)

		rec := tr.Touch(nav(t, "https://bio.example.com/?utm_source=ads", "https://www.google.com/search?q=bio"))

		assert.Equal(t, "https://bio.example.com/?utm_source=ads", rec.CurrentURL)
		assert.Equal(t, str("https://www.google.com/search?q=bio"), rec.ReferrerURL)
	})
}

func TestTracker_End(t *testing.T) {
	tr, _, _ := setupTracker(nil)
	tr.Touch(nav(t, "https://bio.example.com/", ""))
	tr.Touch(nav(t, "https://bio.example.com/", ""))

	require.NoError(t, tr.End())
	assert.Nil(t, tr.Load())

	// next load starts a new session
	next := tr.Touch(nav(t, "https://bio.example.com/", ""))
	assert.Equal(t, 1, next.PageViewCount)
}
