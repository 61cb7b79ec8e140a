package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Saipreetham0/ksp-project-sub001/config"
	"github.com/Saipreetham0/ksp-project-sub001/controllers"
	"github.com/Saipreetham0/ksp-project-sub001/controllers/auth"
	"github.com/Saipreetham0/ksp-project-sub001/middleware"
)

// Controllers bundles the handler sets the router wires up. Everything is
// constructed once in main and passed in, so handlers never reach for globals.
type Controllers struct {
	Orders        *controllers.OrdersController
	Notifications *controllers.NotificationsController
	Projects      *controllers.ProjectsController
	Store         *controllers.StoreController
	Auth          *auth.Controller
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "ksp-api",
	})
}

func InitRouter(c Controllers, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// CORS - origins from CORS_ALLOWED_ORIGINS (comma-separated) or local dev defaults
	origins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if cfg.CORSAllowedOrigins != "" {
		for _, p := range strings.Split(cfg.CORSAllowedOrigins, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/v1").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodOptions)

	// Gateway webhook: sliding-window limiter, gateway IPs can be whitelisted here
	webhookLimiter := middleware.NewWebhookLimiter(500, time.Hour, nil)
	api.Handle("/callback/razorpay", webhookLimiter.Middleware(http.HandlerFunc(c.Orders.Webhook))).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	UserRoutes(api, c, cfg)

	return r
}
