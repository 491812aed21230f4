package http

import (
	"LinkBio-Backend/internal/analytics"
	"LinkBio-Backend/internal/auth"
	"LinkBio-Backend/internal/config"
	"LinkBio-Backend/internal/repository"
	"LinkBio-Backend/internal/tracking"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Deps зависимости HTTP сервера
type Deps struct {
	Kit             *tracking.Kit
	Page            config.Page
	Storage         repository.Storage
	Submitter       analytics.Submitter
	Stats           StatsProvider
	JWTService      *auth.JWTService
	PasswordService *auth.PasswordService
	Admin           auth.AdminCredentials
	Gatherer        prometheus.Gatherer
	Log             *zap.Logger
}

// Server HTTP сервер с обработчиками
type Server struct {
	landingHandler *LandingHandler
	eventsHandler  *EventsHandler
	contextHandler *ContextHandler
	reportsHandler *ReportsHandler
	healthHandler  *HealthHandler
	authHandlers   *auth.AuthHandlers
	authMiddleware *auth.Middleware
	log            *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(d Deps) (*Server, error) {
	landingHandler, err := NewLandingHandler(d.Kit, d.Page, d.Submitter, d.Log)
	if err != nil {
		return nil, err
	}

	return &Server{
		landingHandler: landingHandler,
		eventsHandler:  NewEventsHandler(d.Kit, d.Submitter, d.Log),
		contextHandler: NewContextHandler(d.Kit, d.Log),
		reportsHandler: NewReportsHandler(d.Storage, d.Log),
		healthHandler:  NewHealthHandler(d.Storage, d.Stats, d.Gatherer, d.Log),
		authHandlers:   auth.NewAuthHandlers(d.Admin, d.JWTService, d.PasswordService, d.Log),
		authMiddleware: auth.NewMiddleware(d.JWTService, d.Log),
		log:            d.Log,
	}, nil
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(s.log))
	r.Use(middleware.Recoverer)

	// Health checks
	r.Get("/health", s.healthHandler.Health)
	r.Get("/ready", s.healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", s.healthHandler.Metrics())

	// Swagger документация
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Landing page
	r.Get("/", s.landingHandler.Render)

	r.Route("/api", func(r chi.Router) {
		r.Post("/events", s.eventsHandler.Track)
		r.Get("/context", s.contextHandler.Get)
		r.Post("/context/reset", s.contextHandler.Reset)

		r.Post("/auth/login", s.authHandlers.Login)

		// Отчеты (с аутентификацией)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.RequireAdmin)
			r.Get("/reports/events", s.reportsHandler.ListEvents)
			r.Get("/reports/summary", s.reportsHandler.Summary)
		})
	})

	return r
}

// ErrorResponse структура ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(log *zap.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(log *zap.Logger, w http.ResponseWriter, message string, statusCode int) {
	writeJSON(log, w, ErrorResponse{Error: message}, statusCode)
}
