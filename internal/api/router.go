package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// defaultMaxBodySize caps JSON and multipart request bodies
	defaultMaxBodySize = 25 << 20
	// defaultRequestTimeout bounds one request end to end; inference retries
	// with backoff have to fit inside it.
	defaultRequestTimeout = 5 * time.Minute
)

// RouterConfig carries the handler dependencies
type RouterConfig struct {
	// Analyzer runs the extraction pipelines
	Analyzer Service
	// MaxBodySize caps request bodies in bytes, 0 for the default
	MaxBodySize int64
	// RequestTimeout bounds one request, 0 for the default
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	h := &Handler{
		analyzer:    cfg.Analyzer,
		maxBodySize: cfg.MaxBodySize,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for the mobile app's webview and local development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", h.handleHealth)
	r.Post("/analyze", h.handleAnalyze)
	r.Post("/analyze-image", h.handleAnalyzeImage)
	r.Post("/analyze-image-upload", h.handleAnalyzeImageUpload)
	r.Post("/search-past-events", h.handleSearchPastEvents)

	return r
}
