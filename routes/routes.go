package routes

import (
	"net/http"
	"time"

	"github.com/RushabhaJain/vocalbridge/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health probes
	r.Get("/healthz", deps.HealthHandler.Live)
	r.Get("/readyz", deps.HealthHandler.Ready)

	// API v1 routes, all tenant-scoped
	r.Route("/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireTenant)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", deps.AgentHandler.List)
			r.Post("/", deps.AgentHandler.Create)
			r.Get("/{agentID}", deps.AgentHandler.Get)
			r.Put("/{agentID}", deps.AgentHandler.Update)
			r.Delete("/{agentID}", deps.AgentHandler.Delete)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", deps.SessionHandler.List)
			r.Post("/", deps.SessionHandler.Create)
			r.Get("/{sessionID}", deps.SessionHandler.Get)
			r.Post("/{sessionID}/messages", deps.ConversationHandler.SendMessage)
			r.Get("/{sessionID}/messages", deps.ConversationHandler.ListMessages)
			r.Get("/{sessionID}/provider-calls", deps.ConversationHandler.ListProviderCalls)
		})

		r.Route("/usage", func(r chi.Router) {
			r.Get("/", deps.UsageHandler.Summary)
			r.Get("/events", deps.UsageHandler.Events)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"The requested resource was not found"}`))
	})

	return r
}
