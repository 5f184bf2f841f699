package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"personawriter-backend/infrastructure/di"
	"personawriter-backend/interfaces/http/rest/handlers"
	"personawriter-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API routes, all behind authentication
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.container.JWTValidator, rt.logger))

		generationHandler := handlers.NewGenerationHandler(rt.container.Generation, rt.logger)
		r.Post("/generate", generationHandler.Generate)
		r.Post("/saveGenerated", generationHandler.SaveGenerated)

		historyHandler := handlers.NewHistoryHandler(rt.container.Generation, rt.logger)
		r.Get("/history", historyHandler.List)
		r.Delete("/history", historyHandler.Clear)

		personaHandler := handlers.NewPersonaHandler(rt.container.Personas, rt.logger)
		r.Route("/personas", func(r chi.Router) {
			r.Get("/", personaHandler.List)
			r.Post("/", personaHandler.Create)
			r.Delete("/", personaHandler.Delete)
			r.Delete("/{personaID}", personaHandler.DeleteByID)
		})

		documentHandler := handlers.NewDocumentHandler(
			rt.container.Extractor,
			rt.container.Config.MaxUploadBytes,
			rt.logger,
		)
		r.Post("/uploadPdf", documentHandler.UploadPDF)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
