package interfaces

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/atruong7-bot/event-search/pkg/monitoring"
)

// RouteRegistrar is implemented by every handler in this package.
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

type RouterConfig struct {
	Metrics     *monitoring.Metrics
	MetricsPath string
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewRouter registers the health check, the handlers and, when metrics are
// set, the metrics endpoint and request counting middleware.
func NewRouter(cfg RouterConfig, handlers ...RouteRegistrar) *mux.Router {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "route not found")
	})

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, cfg.Metrics.Handler()).Methods("GET")
		router.Use(cfg.Metrics.Middleware)
	}

	router.Use(requestLogger(logger))
	return router
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
