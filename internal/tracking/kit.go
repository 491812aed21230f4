// Package tracking assembles the per-page-load object graph: cookie stores
// bound to one request, the attribution merger, the session tracker, the
// data layer emitter and the context publisher.
package tracking

import (
	"LinkBio-Backend/internal/attribution"
	"LinkBio-Backend/internal/config"
	"LinkBio-Backend/internal/datalayer"
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/foreignid"
	"LinkBio-Backend/internal/identity"
	"LinkBio-Backend/internal/metrics"
	"LinkBio-Backend/internal/publisher"
	"LinkBio-Backend/internal/report"
	"LinkBio-Backend/internal/session"
	"LinkBio-Backend/internal/store"
	"LinkBio-Backend/internal/store/cookie"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Kit holds the process-wide dependencies and builds a Page per request.
type Kit struct {
	cfg      config.Tracking
	stores   []datalayer.Store
	ids      identity.Source
	reporter report.Reporter
	metrics  *metrics.Metrics
	proxies  TrustedProxies
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a Kit.
type Option func(*Kit)

// WithClock overrides time.Now for cookies and sessions.
func WithClock(now func() time.Time) Option {
	return func(k *Kit) { k.now = now }
}

// WithMetrics enables counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(k *Kit) { k.metrics = m }
}

// WithTrustedProxies honors forwarded headers from these peers only.
func WithTrustedProxies(p TrustedProxies) Option {
	return func(k *Kit) { k.proxies = p }
}

// NewKit creates a kit. reporter and log may be nil.
func NewKit(cfg config.Tracking, stores []datalayer.Store, ids identity.Source, reporter report.Reporter, log *zap.Logger, opts ...Option) *Kit {
	if reporter == nil {
		reporter = report.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if ids == nil {
		ids = identity.New()
	}
	k := &Kit{
		cfg:      cfg,
		stores:   stores,
		ids:      ids,
		reporter: reporter,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Namespace returns the data layer namespace.
func (k *Kit) Namespace() string {
	if k.cfg.Namespace == "" {
		return datalayer.DefaultNamespace
	}
	return k.cfg.Namespace
}

// Page is everything one page context needs.
type Page struct {
	Navigation domain.Navigation
	Jar        *cookie.Jar
	Merger     *attribution.Merger
	Tracker    *session.Tracker
	Emitter    *datalayer.Emitter
	Publisher  *publisher.Publisher
	Registry   *datalayer.Registry

	records *datalayer.MemorySink
	sinks   datalayer.MultiSink
}

// NewPage binds a page context to w and r.
func (k *Kit) NewPage(w http.ResponseWriter, r *http.Request) *Page {
	cookieOpts := store.Options{
		Path:     k.cfg.CookiePath,
		Domain:   k.cfg.CookieDomain,
		SameSite: store.ParseSameSite(k.cfg.SameSite),
	}

	forwarded := k.proxies.Trusts(r)

	jar := cookie.New(w, r, k.reporter,
		cookie.WithClock(k.now),
		cookie.WithForwardedProto(forwarded),
		cookie.WithDefaults(store.Options{Path: cookieOpts.Path, SameSite: cookieOpts.SameSite}),
	)

	p := &Page{
		Navigation: NavigationFromRequest(r, forwarded),
		Jar:        jar,
		records:    &datalayer.MemorySink{},
	}
	p.sinks = datalayer.MultiSink{p.records}

	p.Merger = attribution.NewMerger(jar.Durable(), attribution.Config{
		CookieName:      k.cfg.AttributionCookie,
		RetentionDays:   k.cfg.RetentionDays,
		AccountParam:    k.cfg.AccountParam,
		InternalMediums: k.cfg.InternalMediums,
		InternalSources: k.cfg.InternalSources,
		Cookie:          cookieOpts,
	}, k.log)

	foreign := foreignid.NewReader(r, k.cfg.ForeignClientCookie, k.cfg.ForeignSessionPrefix, k.reporter)
	p.Tracker = session.NewTracker(jar.Session(), k.ids, foreign, session.Config{
		Key:      k.cfg.SessionKey,
		IDPrefix: k.cfg.SessionIDPrefix,
		MaxBytes: cookie.MaxBytes,
	}, k.log, session.WithClock(k.now))

	p.Emitter = datalayer.NewEmitter(datalayer.SinkFunc(p.push), k.ids, k.reporter,
		datalayer.WithNamespace(k.Namespace()),
		datalayer.WithStores(k.stores),
		datalayer.WithMetrics(k.metrics),
		datalayer.WithLogger(k.log),
	)
	p.Publisher = publisher.New(p.Tracker, p.Merger, p.Emitter, k.metrics, k.log)
	p.Registry = datalayer.DefaultRegistry(p.Emitter, k.reporter)

	return p
}

// Forward mirrors every record pushed from now on to s, e.g. the event log.
func (p *Page) Forward(s datalayer.Sink) {
	p.sinks = append(p.sinks, s)
}

func (p *Page) push(r datalayer.Record) {
	p.sinks.Push(r)
}

// Records returns the records pushed during this page context, in order.
func (p *Page) Records() []datalayer.Record {
	return p.records.Records()
}

// Snapshot reads back the current session and attribution, including
// writes made earlier in this page context.
func (p *Page) Snapshot() (*domain.SessionRecord, *domain.AttributionRecord) {
	return p.Tracker.Load(), p.Merger.Load()
}

// NavigationFromRequest rebuilds the absolute page URL and referrer.
// X-Forwarded-Proto and X-Forwarded-Host are read only when forwarded is set.
func NavigationFromRequest(r *http.Request, forwarded bool) domain.Navigation {
	scheme := "http"
	if r.TLS != nil || (forwarded && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")) {
		scheme = "https"
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); forwarded && fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	u := &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
	return domain.Navigation{URL: u, Referrer: r.Referer()}
}
