package http

import (
	"LinkBio-Backend/internal/analytics"
	"LinkBio-Backend/internal/datalayer"
	"LinkBio-Backend/internal/tracking"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxEventBody ограничение тела запроса события
const maxEventBody = 16 << 10

// EventsHandler принимает клики по отслеживаемым элементам страницы
type EventsHandler struct {
	kit       *tracking.Kit
	submitter analytics.Submitter
	log       *zap.Logger
}

// NewEventsHandler создает обработчик событий
func NewEventsHandler(kit *tracking.Kit, submitter analytics.Submitter, log *zap.Logger) *EventsHandler {
	return &EventsHandler{
		kit:       kit,
		submitter: submitter,
		log:       log,
	}
}

// TrackRequest клик по элементу: тип события и его data-gwf-* атрибуты без префикса
type TrackRequest struct {
	Event      string            `json:"event" example:"click_whatsapp_store1"`
	Attributes map[string]string `json:"attributes"`
}

// TrackResponse записи, которые страница добавляет в dataLayer
type TrackResponse struct {
	Records []datalayer.Record `json:"records"`
}

// Track обработчик POST /api/events
//
//	@Summary		Track an interaction
//	@Description	Dispatches a click on a tracked element and returns the data layer records to push (reset marker first)
//	@Tags			Tracking
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TrackRequest	true	"Clicked element"
//	@Success		200		{object}	TrackResponse
//	@Failure		400		{object}	ErrorResponse	"Invalid request data"
//	@Failure		404		{object}	ErrorResponse	"Unknown event type"
//	@Failure		422		{object}	ErrorResponse	"Missing required parameter"
//	@Router			/api/events [post]
func (h *EventsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&req); err != nil {
		h.log.Debug("invalid track request", zap.Error(err))
		writeError(h.log, w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Event = strings.TrimSpace(req.Event)
	if req.Event == "" {
		writeError(h.log, w, "event is required", http.StatusBadRequest)
		return
	}

	page := h.kit.NewPage(w, r)
	// клик происходит на странице, с которой пришел запрос
	page.Forward(newEventSink(h.submitter, page, r, r.Referer(), h.log))

	err := page.Registry.Dispatch(req.Event, datalayer.Attributes(req.Attributes))
	switch {
	case errors.Is(err, datalayer.ErrUnknownEvent), errors.Is(err, datalayer.ErrUnknownStore):
		writeError(h.log, w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, datalayer.ErrMissingParameter):
		writeError(h.log, w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.log.Error("failed to dispatch event", zap.String("event", req.Event), zap.Error(err))
		writeError(h.log, w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(h.log, w, TrackResponse{Records: page.Records()}, http.StatusOK)
}

// newEventSink пересылает записи страницы в журнал событий
func newEventSink(submitter analytics.Submitter, page *tracking.Page, r *http.Request, pageURL string, log *zap.Logger) datalayer.Sink {
	if submitter == nil {
		return nil
	}
	return analytics.NewRequestSink(submitter, analytics.RequestMeta{
		PageURL:   optional(pageURL),
		IPAddress: clientIP(r),
		UserAgent: optional(r.UserAgent()),
		Referer:   optional(page.Navigation.Referrer),
	}, page.Snapshot, log)
}
