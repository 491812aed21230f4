// Package foreignid reads identifiers that Google Analytics 4 keeps in its
// own cookies. Read-only and best effort: any problem yields "absent".
//
//	_ga          GA1.1.<client part 1>.<client part 2>
//	_ga_<stream> GS1.1.<session id>.<session number>.<...>
package foreignid

import (
	"LinkBio-Backend/internal/report"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultClientCookie  = "_ga"
	DefaultSessionPrefix = "_ga_"
)

// CookieSource is anything that exposes request cookies; *http.Request does.
type CookieSource interface {
	Cookies() []*http.Cookie
}

// Reader extracts foreign ids from a cookie source.
type Reader struct {
	src           CookieSource
	clientCookie  string
	sessionPrefix string
	reporter      report.Reporter
}

// NewReader creates a reader. Empty names fall back to the GA4 defaults.
func NewReader(src CookieSource, clientCookie, sessionPrefix string, reporter report.Reporter) *Reader {
	if clientCookie == "" {
		clientCookie = DefaultClientCookie
	}
	if sessionPrefix == "" {
		sessionPrefix = DefaultSessionPrefix
	}
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Reader{
		src:           src,
		clientCookie:  clientCookie,
		sessionPrefix: sessionPrefix,
		reporter:      reporter,
	}
}

// ClientID returns segments 3..end of the client cookie, or nil when the
// cookie is missing or has fewer than four segments.
func (r *Reader) ClientID() (id *string) {
	defer r.guard("foreignid.client", &id)

	value, ok := r.find(func(name string) bool { return name == r.clientCookie })
	if !ok {
		return nil
	}
	parts := strings.Split(value, ".")
	if len(parts) < 4 {
		return nil
	}
	joined := strings.Join(parts[2:], ".")
	return &joined
}

// SessionID returns the third segment of the first cookie carrying the
// session prefix, or nil.
func (r *Reader) SessionID() (id *string) {
	defer r.guard("foreignid.session", &id)

	value, ok := r.find(func(name string) bool { return strings.HasPrefix(name, r.sessionPrefix) })
	if !ok {
		return nil
	}
	parts := strings.Split(value, ".")
	if len(parts) < 3 || parts[2] == "" {
		return nil
	}
	sid := parts[2]
	return &sid
}

func (r *Reader) find(match func(string) bool) (string, bool) {
	if r.src == nil {
		return "", false
	}
	for _, c := range r.src.Cookies() {
		if match(c.Name) {
			return c.Value, true
		}
	}
	return "", false
}

func (r *Reader) guard(op string, id **string) {
	if v := recover(); v != nil {
		r.reporter.Report(report.MalformedValue, op, fmt.Errorf("panic: %v", v))
		*id = nil
	}
}
