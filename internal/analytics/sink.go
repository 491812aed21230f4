package analytics

import (
	"LinkBio-Backend/internal/datalayer"
	"LinkBio-Backend/internal/domain"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Submitter accepts events for persistence
type Submitter interface {
	SubmitEvent(data *EventData) error
}

// RequestMeta is the request information attached to every persisted record
type RequestMeta struct {
	PageURL   *string
	IPAddress *string
	UserAgent *string
	Referer   *string
}

// Snapshot returns the tracking state current at push time
type Snapshot func() (*domain.SessionRecord, *domain.AttributionRecord)

// RequestSink forwards data layer records of one request to the event log.
// Reset markers carry no information and are skipped.
type RequestSink struct {
	submitter Submitter
	meta      RequestMeta
	snapshot  Snapshot
	now       func() time.Time
	log       *zap.Logger
}

// NewRequestSink creates a forwarding sink. snapshot may be nil.
func NewRequestSink(submitter Submitter, meta RequestMeta, snapshot Snapshot, log *zap.Logger) *RequestSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &RequestSink{
		submitter: submitter,
		meta:      meta,
		snapshot:  snapshot,
		now:       time.Now,
		log:       log,
	}
}

func (s *RequestSink) Push(r datalayer.Record) {
	if s.submitter == nil || IsReset(r) {
		return
	}

	data := &EventData{
		Event:      r.Event(),
		PageURL:    s.meta.PageURL,
		IPAddress:  s.meta.IPAddress,
		UserAgent:  s.meta.UserAgent,
		Referer:    s.meta.Referer,
		OccurredAt: s.now(),
	}
	if t, ok := r[datalayer.KeyType].(string); ok {
		data.EventType = &t
	}
	if payload, ok := r[datalayer.KeyData].(map[string]any); ok {
		data.Payload = payload
	}

	if s.snapshot != nil {
		sess, attr := s.snapshot()
		if sess != nil {
			id, views := sess.ID, sess.PageViewCount
			data.SessionID = &id
			data.PageViews = &views
		}
		data.Attribution = attr
	}

	if err := s.submitter.SubmitEvent(data); err != nil {
		s.log.Warn("event not queued for persistence", zap.String("event", data.Event), zap.Error(err))
	}
}

// IsReset reports whether r is a reset marker
func IsReset(r datalayer.Record) bool {
	return strings.HasSuffix(r.Event(), "."+datalayer.EventReset)
}

var _ datalayer.Sink = (*RequestSink)(nil)
