// Package memory holds in-process implementations of the tracking stores.
// Values are kept in their encoded form so the decode path is exercised the
// same way as with cookies.
package memory

import (
	"LinkBio-Backend/internal/report"
	"LinkBio-Backend/internal/store"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value   string
	expires time.Time // zero: no expiry
	opts    store.Options
}

// Durable is a store.Durable backed by a map.
type Durable struct {
	mu       sync.RWMutex
	entries  map[string]entry
	now      func() time.Time
	reporter report.Reporter
}

// NewDurable creates an empty durable store. now may be nil.
func NewDurable(reporter report.Reporter, now func() time.Time) *Durable {
	if reporter == nil {
		reporter = report.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &Durable{
		entries:  make(map[string]entry),
		now:      now,
		reporter: reporter,
	}
}

func (d *Durable) Read(key string, v any) bool {
	d.mu.RLock()
	e, ok := d.entries[key]
	d.mu.RUnlock()
	if !ok {
		return false
	}
	if !e.expires.IsZero() && !d.now().Before(e.expires) {
		return false
	}
	if err := store.Decode(e.value, v); err != nil {
		d.reporter.Report(report.MalformedValue, "memory.read "+key, err)
		return false
	}
	return true
}

func (d *Durable) Write(key string, v any, ttlDays int, opts *store.Options) error {
	enc, err := store.Encode(v)
	if err != nil {
		d.reporter.Report(report.MalformedValue, "memory.write "+key, err)
		return err
	}
	e := entry{value: enc, opts: opts.WithDefaults()}
	if ttlDays != 0 {
		e.expires = d.now().Add(time.Duration(ttlDays) * 24 * time.Hour)
	}

	d.mu.Lock()
	d.entries[key] = e
	d.mu.Unlock()
	return nil
}

func (d *Durable) Delete(key string, opts *store.Options) error {
	return d.Write(key, struct{}{}, -1, opts)
}

// SetRaw stores an already encoded value, bypassing Encode.
func (d *Durable) SetRaw(key, raw string, expires time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[key] = entry{value: raw, expires: expires}
}

// Raw returns the encoded value and expiry under key.
func (d *Durable) Raw(key string) (string, time.Time, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[key]
	return e.value, e.expires, ok
}

// Scoped is a store.Scoped backed by a map with an optional byte quota.
type Scoped struct {
	mu       sync.RWMutex
	items    map[string]string
	quota    int
	reporter report.Reporter
}

// NewScoped creates an empty scoped store. quota <= 0 disables the size check.
func NewScoped(reporter report.Reporter, quota int) *Scoped {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Scoped{
		items:    make(map[string]string),
		quota:    quota,
		reporter: reporter,
	}
}

func (s *Scoped) Read(key string, v any) bool {
	s.mu.RLock()
	raw, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := store.Decode(raw, v); err != nil {
		s.reporter.Report(report.MalformedValue, "memory.session.read "+key, err)
		return false
	}
	return true
}

func (s *Scoped) Write(key string, v any) error {
	enc, err := store.Encode(v)
	if err != nil {
		s.reporter.Report(report.MalformedValue, "memory.session.write "+key, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 && s.usedLocked(key)+len(key)+len(enc) > s.quota {
		err := fmt.Errorf("%w: quota %d bytes", store.ErrQuotaExceeded, s.quota)
		s.reporter.Report(report.QuotaExceeded, "memory.session.write "+key, err)
		return err
	}
	s.items[key] = enc
	return nil
}

func (s *Scoped) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// SetRaw stores an already encoded value.
func (s *Scoped) SetRaw(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = raw
}

// usedLocked counts bytes held by every key except skip.
func (s *Scoped) usedLocked(skip string) int {
	n := 0
	for k, v := range s.items {
		if k == skip {
			continue
		}
		n += len(k) + len(v)
	}
	return n
}

var (
	_ store.Durable = (*Durable)(nil)
	_ store.Scoped  = (*Scoped)(nil)
)
