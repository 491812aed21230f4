// Package publisher runs the once-per-page-load context pass: session first,
// attribution second, then a single context-ready signal.
package publisher

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/metrics"
	"net/url"

	"go.uber.org/zap"
)

// SessionTracker records a page view.
type SessionTracker interface {
	Touch(nav domain.Navigation) domain.SessionRecord
}

// AttributionCapturer merges query parameters into persisted attribution.
type AttributionCapturer interface {
	Capture(params url.Values) domain.AttributionRecord
}

// ReadySignaler emits the context-ready marker.
type ReadySignaler interface {
	ContextReady()
}

// Context is the state produced by one page load.
type Context struct {
	Session     domain.SessionRecord     `json:"session"`
	Attribution domain.AttributionRecord `json:"utm"`
}

// Publisher orchestrates one page load.
type Publisher struct {
	tracker SessionTracker
	merger  AttributionCapturer
	signal  ReadySignaler
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New creates a publisher. m may be nil.
func New(tracker SessionTracker, merger AttributionCapturer, signal ReadySignaler, m *metrics.Metrics, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		tracker: tracker,
		merger:  merger,
		signal:  signal,
		metrics: m,
		log:     log,
	}
}

// Publish must run exactly once per page load and before any interaction
// event: consumers read the stored state after they observe the signal.
func (p *Publisher) Publish(nav domain.Navigation) Context {
	sess := p.tracker.Touch(nav)
	attr := p.merger.Capture(nav.Query())

	p.signal.ContextReady()
	p.metrics.ContextPublished()

	p.log.Debug("context published",
		zap.String("session_id", sess.ID),
		zap.Int("page_count", sess.PageViewCount),
		zap.Stringp("source_first", attr.SourceFirst),
		zap.Stringp("source_last", attr.SourceLast),
	)

	return Context{Session: sess, Attribution: attr}
}
