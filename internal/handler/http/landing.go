package http

import (
	"LinkBio-Backend/internal/analytics"
	"LinkBio-Backend/internal/config"
	"LinkBio-Backend/internal/datalayer"
	"LinkBio-Backend/internal/tracking"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LandingHandler отдает страницу link-in-bio и публикует контекст атрибуции
type LandingHandler struct {
	kit       *tracking.Kit
	page      config.Page
	submitter analytics.Submitter
	tmpl      *template.Template
	log       *zap.Logger
}

// NewLandingHandler создает обработчик страницы
func NewLandingHandler(kit *tracking.Kit, page config.Page, submitter analytics.Submitter, log *zap.Logger) (*LandingHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/landing.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse landing template: %w", err)
	}
	return &LandingHandler{
		kit:       kit,
		page:      page,
		submitter: submitter,
		tmpl:      tmpl,
		log:       log,
	}, nil
}

type shelfView struct {
	config.ShelfItem
	Position int
}

type landingView struct {
	Title        string
	EcommerceURL string
	Stores       []config.Store
	Socials      []config.Social
	Shelf        []shelfView
	Namespace    string
	Records      []datalayer.Record
}

// Render обработчик GET /
//
//	@Summary		Landing page
//	@Description	Renders the landing page, persists session and attribution cookies and embeds the context_ready data layer record
//	@Tags			Tracking
//	@Produce		html
//	@Param			utm_source		query	string	false	"Campaign source"
//	@Param			utm_medium		query	string	false	"Campaign medium"
//	@Param			utm_campaign	query	string	false	"Campaign name"
//	@Param			utm_content		query	string	false	"Campaign content"
//	@Param			utm_term		query	string	false	"Campaign term"
//	@Param			gclid			query	string	false	"Ads click id"
//	@Param			fbclid			query	string	false	"Social click id"
//	@Param			gads_account	query	string	false	"Ads account id"
//	@Success		200
//	@Router			/ [get]
func (h *LandingHandler) Render(w http.ResponseWriter, r *http.Request) {
	page := h.kit.NewPage(w, r)
	page.Forward(newEventSink(h.submitter, page, r, page.Navigation.Location(), h.log))

	ctx := page.Publisher.Publish(page.Navigation)

	view := landingView{
		Title:        h.page.Title,
		EcommerceURL: h.page.EcommerceURL,
		Stores:       h.page.Stores,
		Socials:      h.page.Socials,
		Namespace:    h.kit.Namespace(),
		Records:      page.Records(),
	}
	for i, item := range h.page.Shelf {
		view.Shelf = append(view.Shelf, shelfView{ShelfItem: item, Position: i + 1})
	}

	// Рендерим в буфер: cookie уже записаны, ошибка шаблона не должна оставить полуответ
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		h.log.Error("failed to render landing page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Debug("failed to write landing page", zap.Error(err))
	}

	h.log.Debug("landing page rendered",
		zap.String("session_id", ctx.Session.ID),
		zap.Int("page_count", ctx.Session.PageViewCount),
	)
}
