package http

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/repository"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ReportsHandler отчеты по журналу событий
type ReportsHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewReportsHandler создает обработчик отчетов
func NewReportsHandler(storage repository.Storage, log *zap.Logger) *ReportsHandler {
	return &ReportsHandler{
		storage: storage,
		log:     log,
	}
}

// ListEventsResponse структура ответа списка событий
type ListEventsResponse struct {
	Events []*domain.TrackedEvent `json:"events"`
	Count  int                    `json:"count"`
}

// SummaryResponse агрегаты по журналу событий
type SummaryResponse struct {
	ByEvent  map[string]int64 `json:"by_event"`
	BySource map[string]int64 `json:"by_source"`
	Total    int64            `json:"total"`
}

// ListEvents обработчик GET /api/reports/events
//
//	@Summary		List tracked events
//	@Description	Lists persisted data layer events, newest first
//	@Tags			Reports
//	@Produce		json
//	@Security		BearerAuth
//	@Param			event	query		string	false	"Exact event name, e.g. gwf.linkbio.click_social"
//	@Param			from	query		string	false	"RFC3339 lower bound (inclusive)"
//	@Param			to		query		string	false	"RFC3339 upper bound (exclusive)"
//	@Param			limit	query		int		false	"Maximum number of events (default 100, max 1000)"
//	@Success		200		{object}	ListEventsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/reports/events [get]
func (h *ReportsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(h.log, w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	events, err := h.storage.ListEvents(ctx, filter)
	if err != nil {
		h.log.Error("failed to list events", zap.Error(err))
		writeError(h.log, w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*domain.TrackedEvent{}
	}

	writeJSON(h.log, w, ListEventsResponse{Events: events, Count: len(events)}, http.StatusOK)
}

// Summary обработчик GET /api/reports/summary
//
//	@Summary		Event summary
//	@Description	Counts events by name and by last-touch source
//	@Tags			Reports
//	@Produce		json
//	@Security		BearerAuth
//	@Param			event	query		string	false	"Exact event name"
//	@Param			from	query		string	false	"RFC3339 lower bound (inclusive)"
//	@Param			to		query		string	false	"RFC3339 upper bound (exclusive)"
//	@Success		200		{object}	SummaryResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/reports/summary [get]
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(h.log, w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	byEvent, err := h.storage.CountByEvent(ctx, filter)
	if err != nil {
		h.log.Error("failed to count events", zap.Error(err))
		writeError(h.log, w, "Failed to build summary", http.StatusInternalServerError)
		return
	}
	bySource, err := h.storage.CountBySource(ctx, filter)
	if err != nil {
		h.log.Error("failed to count events by source", zap.Error(err))
		writeError(h.log, w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	var total int64
	for _, n := range byEvent {
		total += n
	}

	writeJSON(h.log, w, SummaryResponse{ByEvent: byEvent, BySource: bySource, Total: total}, http.StatusOK)
}

func parseFilter(q url.Values) (repository.EventFilter, error) {
	filter := repository.EventFilter{Event: q.Get("event")}

	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid %s: expected RFC3339", name)
		}
		*dst = &t
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid limit")
		}
		filter.Limit = n
	}

	return filter, nil
}
