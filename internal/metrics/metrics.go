package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkbio"

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ContextsPublished prometheus.Counter
	EventsEmitted     *prometheus.CounterVec
	EventsDropped     *prometheus.CounterVec
	Reports           *prometheus.CounterVec
	EventsPersisted   *prometheus.CounterVec
	QueueLength       prometheus.GaugeFunc
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ContextsPublished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_published_total",
			Help:      "Page loads that produced a context_ready signal.",
		}),
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Interaction events pushed to the data layer.",
		}, []string{"event"}),
		EventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Interaction events that were not emitted.",
		}, []string{"reason"}),
		Reports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_reports_total",
			Help:      "Non-fatal tracking failures by kind.",
		}, []string{"kind"}),
		EventsPersisted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_persisted_total",
			Help:      "Event log writes by result.",
		}, []string{"result"}),
	}
}

// RegisterQueueLength exposes the analytics queue length as a gauge.
func (m *Metrics) RegisterQueueLength(reg prometheus.Registerer, length func() float64) {
	if m == nil {
		return
	}
	m.QueueLength = promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analytics_queue_length",
		Help:      "Events waiting to be persisted.",
	}, length)
}

func (m *Metrics) ContextPublished() {
	if m == nil {
		return
	}
	m.ContextsPublished.Inc()
}

func (m *Metrics) EventEmitted(event string) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(event).Inc()
}

func (m *Metrics) EventDropped(reason string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) EventPersisted(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.EventsPersisted.WithLabelValues(result).Inc()
}

// ReportsCounter returns the per-kind report counter, nil when m is nil.
func (m *Metrics) ReportsCounter() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.Reports
}
