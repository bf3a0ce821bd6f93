package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakhurst-health/intake-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/oakhurst-health/intake-ai-platform/internal/http/middleware"
	"github.com/oakhurst-health/intake-ai-platform/internal/webhook"
	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	WebhookHandler     *webhook.Handler
	AdminSubmissions   *handlers.AdminSubmissionsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.WebhookHandler != nil {
			public.Post("/webhooks/voice-agent/post-call", cfg.WebhookHandler.HandlePostCall)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Staff endpoints, JWT-guarded
	if cfg.AdminSubmissions != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/submissions", cfg.AdminSubmissions.ListRecent)
			admin.Get("/submissions/{conversationID}", cfg.AdminSubmissions.GetByConversation)
			admin.Post("/submissions/{conversationID}/resync", cfg.AdminSubmissions.Resync)
		})
	}

	return r
}
