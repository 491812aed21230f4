// Package report is the diagnostics channel for non-fatal tracking failures.
// Nothing reported here ever reaches the page: callers degrade and carry on.
package report

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Kind classifies a failure.
type Kind string

const (
	StorageUnavailable Kind = "storage_unavailable"
	QuotaExceeded      Kind = "quota_exceeded"
	MalformedValue     Kind = "malformed_value"
	MissingParameter   Kind = "missing_parameter"
	UnknownEvent       Kind = "unknown_event"
)

// Reporter receives failures. op names the operation, e.g. "cookie.read gwf_utm".
type Reporter interface {
	Report(kind Kind, op string, err error)
}

// Nop discards reports.
type Nop struct{}

func (Nop) Report(Kind, string, error) {}

// Logger reports through zap and counts by kind.
type Logger struct {
	log     *zap.Logger
	counter *prometheus.CounterVec
}

// NewLogger creates a zap-backed reporter. counter may be nil.
func NewLogger(log *zap.Logger, counter *prometheus.CounterVec) *Logger {
	return &Logger{log: log, counter: counter}
}

func (l *Logger) Report(kind Kind, op string, err error) {
	l.log.Warn("tracking degraded",
		zap.String("kind", string(kind)),
		zap.String("op", op),
		zap.Error(err),
	)
	if l.counter != nil {
		l.counter.WithLabelValues(string(kind)).Inc()
	}
}

// Entry is one captured report.
type Entry struct {
	Kind Kind
	Op   string
	Err  error
}

// Recorder keeps reports in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Report(kind Kind, op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Kind: kind, Op: op, Err: err})
}

// Entries returns a copy of captured reports.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many reports of the given kind were captured.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
