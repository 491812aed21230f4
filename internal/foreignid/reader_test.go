package foreignid

import (
	"LinkBio-Backend/internal/report"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(cookies map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for name, value := range cookies {
		r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return r
}

// panicSource panics on every cookie lookup
type panicSource struct{}

func (panicSource) Cookies() []*http.Cookie { panic("cookie jar gone") }

func TestReader_ClientID(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
		want    *string
	}{
		{"missing", nil, nil},
		{"three_segments", map[string]string{"_ga": "GA1.1.123"}, nil},
		{"four_segments", map[string]string{"_ga": "GA1.1.123.456"}, strp("123.456")},
		{"extra_segments", map[string]string{"_ga": "GA1.2.123.456.789"}, strp("123.456.789")},
		{"other_cookie_only", map[string]string{"_gid": "GA1.1.9.9"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(request(tt.cookies), "", "", nil)
			assert.Equal(t, tt.want, r.ClientID())
		})
	}
}

func TestReader_SessionID(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
		want    *string
	}{
		{"missing", nil, nil},
		{"two_segments", map[string]string{"_ga_ABC123": "GS1.1"}, nil},
		{"session", map[string]string{"_ga_ABC123": "GS1.1.1700000000.3.1.1700000100.0.0.0"}, strp("1700000000")},
		{"empty_segment", map[string]string{"_ga_ABC123": "GS1.1..3"}, nil},
		{"client_cookie_not_matched", map[string]string{"_ga": "GA1.1.123.456"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(request(tt.cookies), "", "", nil)
			assert.Equal(t, tt.want, r.SessionID())
		})
	}
}

func TestReader_CustomNames(t *testing.T) {
	r := NewReader(request(map[string]string{
		"cid":     "X.Y.abc.def",
		"sess_01": "S.1.42",
	}), "cid", "sess_", nil)

	assert.Equal(t, strp("abc.def"), r.ClientID())
	assert.Equal(t, strp("42"), r.SessionID())
}

func TestReader_Failures(t *testing.T) {
	// Test nil source
	t.Run("nil_source", func(t *testing.T) {
		r := NewReader(nil, "", "", nil)
		assert.Nil(t, r.ClientID())
		assert.Nil(t, r.SessionID())
	})

	// Test panic is recovered and reported
	t.Run("panic_recovered", func(t *testing.T) {
		rec := &report.Recorder{}
		r := NewReader(panicSource{}, "", "", rec)

		assert.Nil(t, r.ClientID())
		assert.Nil(t, r.SessionID())

		entries := rec.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, report.MalformedValue, entries[0].Kind)
		assert.Equal(t, "foreignid.client", entries[0].Op)
		assert.Equal(t, "foreignid.session", entries[1].Op)
	})
}

func strp(s string) *string { return &s }
