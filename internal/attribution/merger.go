// Package attribution merges campaign parameters from the landing URL into the
// visitor's persisted attribution record.
//
// First touch is captured once, from the first visit carrying external UTM
// parameters, and never changes afterwards. Last touch follows every visit
// that carries UTM parameters, internal ones included. Click ids and the ads
// account id are last-seen-wins and do not depend on UTM presence.
package attribution

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/store"
	"net/url"

	"go.uber.org/zap"
)

const (
	DefaultCookieName    = "gwf_utm"
	DefaultRetentionDays = 90
	DefaultAccountParam  = "gads_account"

	ParamSource   = "utm_source"
	ParamMedium   = "utm_medium"
	ParamCampaign = "utm_campaign"
	ParamContent  = "utm_content"
	ParamTerm     = "utm_term"
	ParamGCLID    = "gclid"
	ParamFBCLID   = "fbclid"
)

// Config controls where the record lives and how traffic is classified.
type Config struct {
	CookieName    string
	RetentionDays int
	AccountParam  string
	// Exact, case-sensitive values marking internal traffic.
	InternalMediums []string
	InternalSources []string
	Cookie          store.Options
}

// DefaultConfig returns the production classification rules.
func DefaultConfig() Config {
	return Config{
		CookieName:      DefaultCookieName,
		RetentionDays:   DefaultRetentionDays,
		AccountParam:    DefaultAccountParam,
		InternalMediums: []string{"internal", "banner"},
		InternalSources: []string{"site", "email_interno"},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CookieName == "" {
		c.CookieName = d.CookieName
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = d.RetentionDays
	}
	if c.AccountParam == "" {
		c.AccountParam = d.AccountParam
	}
	if c.InternalMediums == nil {
		c.InternalMediums = d.InternalMediums
	}
	if c.InternalSources == nil {
		c.InternalSources = d.InternalSources
	}
	return c
}

// IsInternal reports whether a touch comes from the brand's own properties.
func (c Config) IsInternal(t domain.Touch) bool {
	return matches(t.Medium, c.InternalMediums) || matches(t.Source, c.InternalSources)
}

func matches(v *string, set []string) bool {
	if v == nil {
		return false
	}
	for _, s := range set {
		if *v == s {
			return true
		}
	}
	return false
}

// Merger reads and writes the attribution record in a durable store.
type Merger struct {
	store store.Durable
	cfg   Config
	log   *zap.Logger
}

// NewMerger creates a merger over st.
func NewMerger(st store.Durable, cfg Config, log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{
		store: st,
		cfg:   cfg.withDefaults(),
		log:   log,
	}
}

// Load returns the persisted record, or nil when absent or unreadable.
func (m *Merger) Load() *domain.AttributionRecord {
	var rec domain.AttributionRecord
	if !m.store.Read(m.cfg.CookieName, &rec) {
		return nil
	}
	return &rec
}

// Capture merges params into the persisted record.
func (m *Merger) Capture(params url.Values) domain.AttributionRecord {
	return m.Merge(m.Load(), params)
}

// Merge applies params to existing, persists the result for the retention
// window and returns it. A call without parameters rewrites the record
// unchanged, which refreshes its expiry.
func (m *Merger) Merge(existing *domain.AttributionRecord, params url.Values) domain.AttributionRecord {
	var rec domain.AttributionRecord
	if existing != nil {
		rec = *existing
	}

	if touch, ok := ExtractTouch(params); ok {
		internal := m.cfg.IsInternal(touch)

		if !internal && !rec.HasFirstTouch() {
			rec.SetFirstTouch(touch)
			m.log.Debug("first touch captured",
				zap.Stringp("source", touch.Source),
				zap.Stringp("medium", touch.Medium),
				zap.Stringp("campaign", touch.Campaign),
			)
		}

		rec.SetLastTouch(touch)
		m.log.Debug("last touch updated",
			zap.Stringp("source", touch.Source),
			zap.Stringp("medium", touch.Medium),
			zap.Bool("internal", internal),
		)
	}

	if v := lookup(params, m.cfg.AccountParam); v != nil {
		rec.AdsAccountID = v
	}
	if v := lookup(params, ParamGCLID); v != nil {
		rec.ClickIDAds = v
	}
	if v := lookup(params, ParamFBCLID); v != nil {
		rec.ClickIDSocial = v
	}

	opts := m.cfg.Cookie
	_ = m.store.Write(m.cfg.CookieName, rec, m.cfg.RetentionDays, &opts)

	return rec
}

// Forget deletes the persisted record. Never called automatically.
func (m *Merger) Forget() error {
	opts := m.cfg.Cookie
	return m.store.Delete(m.cfg.CookieName, &opts)
}

// ExtractTouch reads the UTM descriptors from params. ok is true when any of
// utm_source, utm_medium or utm_campaign is present; content and term alone
// do not count.
func ExtractTouch(params url.Values) (domain.Touch, bool) {
	if !has(params, ParamSource) && !has(params, ParamMedium) && !has(params, ParamCampaign) {
		return domain.Touch{}, false
	}
	return domain.Touch{
		Source:   lookup(params, ParamSource),
		Medium:   lookup(params, ParamMedium),
		Campaign: lookup(params, ParamCampaign),
		Content:  lookup(params, ParamContent),
		Term:     lookup(params, ParamTerm),
	}, true
}

func has(params url.Values, key string) bool {
	_, ok := params[key]
	return ok
}

// lookup returns the first value for key. A key present without a value
// yields a pointer to "", never nil.
func lookup(params url.Values, key string) *string {
	vs, ok := params[key]
	if !ok {
		return nil
	}
	v := ""
	if len(vs) > 0 {
		v = vs[0]
	}
	return &v
}
