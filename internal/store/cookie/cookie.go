// Package cookie implements the tracking stores on top of HTTP cookies.
//
// A Jar is bound to one request/response pair. Writes are sent as Set-Cookie
// headers and are also remembered, so a read later in the same page context
// sees what was written rather than the stale request header.
package cookie

import (
	"LinkBio-Backend/internal/report"
	"LinkBio-Backend/internal/store"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// MaxBytes is the per-cookie size browsers are guaranteed to keep (name + value).
const MaxBytes = 4096

// statusWriter is implemented by chi's WrapResponseWriter; a non-zero status
// means headers are gone and cookies can no longer be set.
type statusWriter interface {
	Status() int
}

// Jar reads cookies from a request and writes them to its response.
type Jar struct {
	w         http.ResponseWriter
	r         *http.Request
	reporter  report.Reporter
	now       func() time.Time
	defaults  store.Options
	forwarded bool // trust X-Forwarded-Proto

	mu      sync.Mutex
	pending map[string]*http.Cookie
}

// Option configures a Jar.
type Option func(*Jar)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Jar) { j.now = now }
}

// WithDefaults sets the options used when a write passes none.
func WithDefaults(opts store.Options) Option {
	return func(j *Jar) { j.defaults = opts.WithDefaults() }
}

// WithForwardedProto makes Secure honor X-Forwarded-Proto.
func WithForwardedProto(trust bool) Option {
	return func(j *Jar) { j.forwarded = trust }
}

// New binds a Jar to w and r. A nil w gives a read-only jar whose writes
// report storage as unavailable.
func New(w http.ResponseWriter, r *http.Request, reporter report.Reporter, opts ...Option) *Jar {
	if reporter == nil {
		reporter = report.Nop{}
	}
	j := &Jar{
		w:        w,
		r:        r,
		reporter: reporter,
		now:      time.Now,
		defaults: (*store.Options)(nil).WithDefaults(),
		pending:  make(map[string]*http.Cookie),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Durable returns the expiring store view of the jar.
func (j *Jar) Durable() *Durable { return &Durable{jar: j} }

// Session returns the browser-session store view of the jar.
func (j *Jar) Session() *Session { return &Session{jar: j} }

// Request returns the bound request.
func (j *Jar) Request() *http.Request { return j.r }

// Secure reports whether the page is served over a secure transport.
func (j *Jar) Secure() bool {
	if j.r == nil {
		return false
	}
	if j.r.TLS != nil {
		return true
	}
	return j.forwarded && strings.EqualFold(j.r.Header.Get("X-Forwarded-Proto"), "https")
}

func (j *Jar) raw(key string) (string, bool) {
	j.mu.Lock()
	c, ok := j.pending[key]
	j.mu.Unlock()
	if ok {
		if c.MaxAge < 0 {
			return "", false
		}
		return c.Value, true
	}

	if j.r == nil {
		return "", false
	}
	c, err := j.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j *Jar) read(op, key string, v any) bool {
	raw, ok := j.raw(key)
	if !ok {
		return false
	}
	if err := store.Decode(raw, v); err != nil {
		j.reporter.Report(report.MalformedValue, op+" "+key, err)
		return false
	}
	return true
}

func (j *Jar) committed() bool {
	if j.w == nil {
		return true
	}
	if sw, ok := j.w.(statusWriter); ok {
		return sw.Status() != 0
	}
	return false
}

func (j *Jar) set(op string, c *http.Cookie) error {
	if j.committed() {
		err := fmt.Errorf("%w: response already written", store.ErrUnavailable)
		j.reporter.Report(report.StorageUnavailable, op+" "+c.Name, err)
		return err
	}
	if len(c.Name)+len(c.Value) > MaxBytes {
		err := fmt.Errorf("%w: %d bytes", store.ErrQuotaExceeded, len(c.Name)+len(c.Value))
		j.reporter.Report(report.QuotaExceeded, op+" "+c.Name, err)
		return err
	}
	if err := c.Valid(); err != nil {
		err = fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		j.reporter.Report(report.StorageUnavailable, op+" "+c.Name, err)
		return err
	}

	http.SetCookie(j.w, c)

	j.mu.Lock()
	j.pending[c.Name] = c
	j.mu.Unlock()
	return nil
}

func (j *Jar) encode(op, key string, v any) (string, error) {
	enc, err := store.Encode(v)
	if err != nil {
		j.reporter.Report(report.MalformedValue, op+" "+key, err)
		return "", err
	}
	return enc, nil
}

// Durable stores values in cookies with an Expires attribute.
type Durable struct {
	jar *Jar
}

func (d *Durable) Read(key string, v any) bool {
	return d.jar.read("cookie.read", key, v)
}

func (d *Durable) Write(key string, v any, ttlDays int, opts *store.Options) error {
	enc, err := d.jar.encode("cookie.write", key, v)
	if err != nil {
		return err
	}

	o := d.jar.defaults
	if opts != nil {
		o = opts.WithDefaults()
	}

	c := &http.Cookie{
		Name:     key,
		Value:    enc,
		Path:     o.Path,
		Domain:   o.Domain,
		SameSite: o.SameSite,
		Secure:   o.Secure || d.jar.Secure(),
	}

	switch {
	case ttlDays > 0:
		c.Expires = d.jar.now().Add(time.Duration(ttlDays) * 24 * time.Hour).UTC()
	case ttlDays < 0:
		c.Expires = d.jar.now().Add(time.Duration(ttlDays) * 24 * time.Hour).UTC()
		c.MaxAge = -1
	}

	return d.jar.set("cookie.write", c)
}

// Delete writes an empty object that is already expired. Cookies have no
// remove primitive; the browser drops the entry when it sees the past date.
func (d *Durable) Delete(key string, opts *store.Options) error {
	o := d.jar.defaults
	if opts != nil {
		o = opts.WithDefaults()
	}
	return d.Write(key, struct{}{}, -1, &o)
}

// Session stores values in cookies without expiry, which the browser drops
// when the session ends.
type Session struct {
	jar *Jar
}

func (s *Session) Read(key string, v any) bool {
	return s.jar.read("session.read", key, v)
}

func (s *Session) Write(key string, v any) error {
	enc, err := s.jar.encode("session.write", key, v)
	if err != nil {
		return err
	}
	o := s.jar.defaults
	return s.jar.set("session.write", &http.Cookie{
		Name:     key,
		Value:    enc,
		Path:     o.Path,
		SameSite: o.SameSite,
		Secure:   o.Secure || s.jar.Secure(),
	})
}

func (s *Session) Delete(key string) error {
	o := s.jar.defaults
	return s.jar.set("session.delete", &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     o.Path,
		SameSite: o.SameSite,
		Secure:   o.Secure || s.jar.Secure(),
		MaxAge:   -1,
	})
}

var (
	_ store.Durable = (*Durable)(nil)
	_ store.Scoped  = (*Session)(nil)
)
