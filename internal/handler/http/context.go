package http

import (
	"LinkBio-Backend/internal/domain"
	"LinkBio-Backend/internal/tracking"
	"net/http"

	"go.uber.org/zap"
)

// ContextHandler отдает и сбрасывает состояние атрибуции и сессии
type ContextHandler struct {
	kit *tracking.Kit
	log *zap.Logger
}

// NewContextHandler создает обработчик контекста
func NewContextHandler(kit *tracking.Kit, log *zap.Logger) *ContextHandler {
	return &ContextHandler{
		kit: kit,
		log: log,
	}
}

// ContextResponse текущее состояние; null, если запись отсутствует
type ContextResponse struct {
	Session     *domain.SessionRecord     `json:"session"`
	Attribution *domain.AttributionRecord `json:"utm"`
}

// Get обработчик GET /api/context
//
//	@Summary		Current tracking context
//	@Description	Returns the session and attribution records stored in the request cookies without modifying them
//	@Tags			Tracking
//	@Produce		json
//	@Success		200	{object}	ContextResponse
//	@Router			/api/context [get]
func (h *ContextHandler) Get(w http.ResponseWriter, r *http.Request) {
	// без ResponseWriter страница только читает
	page := h.kit.NewPage(nil, r)
	sess, attr := page.Snapshot()

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(h.log, w, ContextResponse{Session: sess, Attribution: attr}, http.StatusOK)
}

// Reset обработчик POST /api/context/reset
//
//	@Summary		Forget tracking context
//	@Description	Expires the attribution and session cookies
//	@Tags			Tracking
//	@Success		204
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/context/reset [post]
func (h *ContextHandler) Reset(w http.ResponseWriter, r *http.Request) {
	page := h.kit.NewPage(w, r)

	if err := page.Merger.Forget(); err != nil {
		h.log.Warn("failed to delete attribution", zap.Error(err))
		writeError(h.log, w, "Failed to reset context", http.StatusInternalServerError)
		return
	}
	if err := page.Tracker.End(); err != nil {
		h.log.Warn("failed to delete session", zap.Error(err))
		writeError(h.log, w, "Failed to reset context", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
