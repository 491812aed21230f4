// Package session keeps the per-browser-session record: identity, start time,
// page view count, elapsed time, current navigation and the analytics ids GA4
// wrote to its own cookies.
package session

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/identity"
	"LinkBio-Backend/internal/store"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	DefaultKey      = "gwf_session"
	DefaultIDPrefix = "gwf_session_"
	// DefaultMaxBytes matches the per-cookie limit browsers keep (name + value).
	DefaultMaxBytes = 4096
)

// ForeignIDs supplies third-party analytics identifiers.
type ForeignIDs interface {
	ClientID() *string
	SessionID() *string
}

// Config controls the storage key and id format.
type Config struct {
	Key      string
	IDPrefix string
	// MaxBytes bounds len(Key) + len(encoded record). Long page URLs are
	// shortened to stay under it.
	MaxBytes int
}

// Tracker creates and updates the session record in a scoped store.
type Tracker struct {
	store   store.Scoped
	ids     identity.Source
	foreign ForeignIDs
	cfg     Config
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker. foreign may be nil.
func NewTracker(st store.Scoped, ids identity.Source, foreign ForeignIDs, cfg Config, log *zap.Logger, opts ...Option) *Tracker {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{
		store:   st,
		ids:     ids,
		foreign: foreign,
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load returns the stored session, or nil when absent, unreadable or without id.
func (t *Tracker) Load() *domain.SessionRecord {
	var rec domain.SessionRecord
	if !t.store.Read(t.cfg.Key, &rec) || !rec.IsValid() {
		return nil
	}
	return &rec
}

// Touch records one page view. A missing or id-less record is replaced by a
// fresh one; either way the call ends with the count incremented by one.
// The returned record is the one persisted, with page URLs shortened when
// the full record would not fit the store.
func (t *Tracker) Touch(nav domain.Navigation) domain.SessionRecord {
	now := t.now()

	var rec domain.SessionRecord
	if existing := t.Load(); existing != nil {
		rec = *existing
		rec.CurrentURL = nav.Location()
		rec.ReferrerURL = referrer(nav)
		// never decreases, even if the clock stepped back
		if e := elapsedSeconds(rec.StartedAt, now); e > rec.ElapsedSeconds {
			rec.ElapsedSeconds = e
		}

		// GA4 may write its cookies after our first pass
		if rec.ForeignClientID == nil {
			rec.ForeignClientID = t.clientID()
		}
		if rec.ForeignSessionID == nil {
			rec.ForeignSessionID = t.sessionID()
		}
	} else {
		rec = domain.SessionRecord{
			ID:               t.cfg.IDPrefix + t.ids.NewID(),
			StartedAt:        now.UnixMilli(),
			PageViewCount:    0,
			ElapsedSeconds:   0,
			ForeignClientID:  t.clientID(),
			ForeignSessionID: t.sessionID(),
			CurrentURL:       nav.Location(),
			ReferrerURL:      referrer(nav),
		}
		t.log.Debug("session created", zap.String("session_id", rec.ID))
	}

	rec.PageViewCount++
	rec = t.fit(rec)

	_ = t.store.Write(t.cfg.Key, rec)

	return rec
}

// End deletes the session record.
func (t *Tracker) End() error {
	return t.store.Delete(t.cfg.Key)
}

func (t *Tracker) clientID() *string {
	if t.foreign == nil {
		return nil
	}
	return t.foreign.ClientID()
}

func (t *Tracker) sessionID() *string {
	if t.foreign == nil {
		return nil
	}
	return t.foreign.SessionID()
}

// fit shortens page_referrer, then page_location, until the encoded record
// fits MaxBytes. The referrer loses its query first and is dropped last.
func (t *Tracker) fit(rec domain.SessionRecord) domain.SessionRecord {
	if t.fits(rec) {
		return rec
	}

	if rec.ReferrerURL != nil {
		stripped := stripQuery(*rec.ReferrerURL)
		rec.ReferrerURL = &stripped
	}

	for !t.fits(rec) {
		ref := ""
		if rec.ReferrerURL != nil {
			ref = *rec.ReferrerURL
		}
		switch {
		case len(ref) > len(rec.CurrentURL) && len(ref) > 0:
			short := truncate(ref, len(ref)/2)
			rec.ReferrerURL = &short
		case len(rec.CurrentURL) > 0:
			rec.CurrentURL = truncate(rec.CurrentURL, len(rec.CurrentURL)/2)
		case rec.ReferrerURL != nil:
			rec.ReferrerURL = nil
		default:
			// nothing left to shorten, the store reports the failure
			return rec
		}
	}

	t.log.Debug("session urls shortened to fit store",
		zap.String("session_id", rec.ID),
		zap.Int("max_bytes", t.cfg.MaxBytes),
	)
	return rec
}

func (t *Tracker) fits(rec domain.SessionRecord) bool {
	enc, err := store.Encode(rec)
	if err != nil {
		return true
	}
	return len(t.cfg.Key)+len(enc) <= t.cfg.MaxBytes
}

// stripQuery keeps scheme, host and path.
func stripQuery(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func referrer(nav domain.Navigation) *string {
	if nav.Referrer == "" {
		return nil
	}
	r := nav.Referrer
	return &r
}

// elapsedSeconds floors (now - start) to whole seconds; a clock that went
// backwards yields 0.
func elapsedSeconds(startedAtMs int64, now time.Time) int64 {
	d := now.UnixMilli() - startedAtMs
	if d < 0 {
		return 0
	}
	return d / 1000
}
