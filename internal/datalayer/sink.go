// Package datalayer produces the records a tag manager consumes from
// window.dataLayer: a reset marker, a context-ready marker once per page load,
// and interaction events.
package datalayer

import "sync"

// Record is one entry pushed to the data layer. It always has an "event" key.
type Record map[string]any

// Event returns the record's event name.
func (r Record) Event() string {
	s, _ := r["event"].(string)
	return s
}

// Sink is an append-only, ordered queue of records.
type Sink interface {
	Push(Record)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Record)

func (f SinkFunc) Push(r Record) { f(r) }

// MultiSink pushes every record to each sink in order.
type MultiSink []Sink

func (m MultiSink) Push(r Record) {
	for _, s := range m {
		if s != nil {
			s.Push(r)
		}
	}
}

// MemorySink captures records in memory. Safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

func (s *MemorySink) Push(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Records returns the captured records in push order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Events returns the event names in push order.
func (s *MemorySink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Event())
	}
	return out
}

// Len returns the number of captured records.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
