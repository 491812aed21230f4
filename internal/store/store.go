// Package store defines the two key-value stores tracking state lives in:
// a durable store with expiry (cookies) and a scoped store that lives as long
// as the browser session. Values are JSON objects, percent-encoded at rest.
//
// Both stores fail soft. A read of a missing or undecodable value reports
// "absent"; a write that cannot be performed is dropped. Failures go to a
// report.Reporter, and the returned errors exist for callers that care.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	ErrUnavailable   = errors.New("storage unavailable")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrMalformed     = errors.New("malformed stored value")
)

// DefaultPath is the cookie path used when Options.Path is empty.
const DefaultPath = "/"

// Options scope a durable write.
type Options struct {
	Path     string
	Domain   string
	SameSite http.SameSite
	// Secure is forced on when the page is served over TLS.
	Secure bool
}

// WithDefaults fills unset fields: path "/", SameSite Lax.
func (o *Options) WithDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Path == "" {
		out.Path = DefaultPath
	}
	if out.SameSite == 0 || out.SameSite == http.SameSiteDefaultMode {
		out.SameSite = http.SameSiteLaxMode
	}
	return out
}

// Durable is a store whose entries expire after a number of days.
type Durable interface {
	// Read decodes the value under key into v and reports whether it was present and valid.
	Read(key string, v any) bool
	// Write stores v for ttlDays. Zero means "until the browser session ends",
	// a negative value writes an already expired entry.
	Write(key string, v any, ttlDays int, opts *Options) error
	// Delete overwrites key with an empty object that is already expired.
	Delete(key string, opts *Options) error
}

// Scoped is a store bound to the browser session.
type Scoped interface {
	Read(key string, v any) bool
	Write(key string, v any) error
	Delete(key string) error
}

// Encode serializes v as JSON and percent-encodes it the way
// encodeURIComponent does, which keeps it cookie safe.
func Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return url.PathEscape(string(b)), nil
}

// Decode reverses Encode. A stored JSON null counts as malformed: it never
// decodes into an object.
func Decode(raw string, v any) error {
	s, err := url.PathUnescape(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	trimmed := bytes.TrimSpace([]byte(s))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: empty value", ErrMalformed)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// ParseSameSite maps "Lax", "Strict", "None" to http.SameSite, defaulting to Lax.
func ParseSameSite(s string) http.SameSite {
	switch s {
	case "Strict", "strict":
		return http.SameSiteStrictMode
	case "None", "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
