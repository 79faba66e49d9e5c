// Route registration and go-chi router setup.
// Public routes (/health, /metrics) vs JWT-protected routes (/api/v1/*).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matiasleandrokruk/vocable/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/vocable/internal/api/middleware"
	"github.com/matiasleandrokruk/vocable/internal/infra/eventbus"
)

// Deps carries the wired services the router exposes. Construction and
// lifecycle (watchers, consumers, decay cron) stay in main; the router only
// maps routes to handlers.
type Deps struct {
	Engine       handlers.PredictEngine
	Chat         handlers.ChatService
	Settings     handlers.SettingsStore
	Bus          eventbus.EventBus
	AdminKeyHash string
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apmiddleware.MetricsMiddleware)

	// ===== PUBLIC ROUTES (no auth required) =====

	// Health check — unauthenticated, used by the launcher's readiness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// ===== PROTECTED ROUTES (JWT required via AuthMiddleware) =====

	predictHandler := handlers.NewPredictHandler(deps.Engine)
	chatHandler := handlers.NewChatHandler(deps.Chat)
	settingsHandler := handlers.NewSettingsHandler(deps.Settings)
	historyHandler := handlers.NewHistoryHandler(deps.Bus)

	// All /api/v1/* routes require a valid Bearer JWT token.
	// AuthMiddleware validates the token and injects UserID into context.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apmiddleware.AuthMiddleware)

		r.Post("/predict", predictHandler.Predict) // POST /api/v1/predict
		r.Post("/chat", chatHandler.Chat)          // POST /api/v1/chat

		r.Route("/history", func(r chi.Router) {
			r.Post("/events", historyHandler.LogEvent) // POST /api/v1/history/events
		})

		// Settings additionally sit behind the caregiver admin key.
		r.Route("/settings", func(r chi.Router) {
			r.Use(apmiddleware.AdminMiddleware(deps.AdminKeyHash))
			r.Get("/ai", settingsHandler.GetSettings)    // GET /api/v1/settings/ai
			r.Put("/ai", settingsHandler.UpdateSettings) // PUT /api/v1/settings/ai
		})
	})

	return r
}
