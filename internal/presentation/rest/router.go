package rest

import (
	"log/slog"
	"net/http"
)

// RouterConfig collects the handlers served over HTTP.
type RouterConfig struct {
	Form       *FormHandler
	Prediction *PredictionHandler
	Health     *HealthHandler
	Metrics    http.Handler
	Limiter    *RateLimiter
	Logger     *slog.Logger
}

// NewRouter registers every route and wraps the mux in the middleware stack.
// Health and metrics endpoints bypass the rate limiter.
func NewRouter(cfg RouterConfig) http.Handler {
	limited := http.NewServeMux()
	cfg.Form.RegisterRoutes(limited)
	cfg.Prediction.RegisterRoutes(limited)

	var app http.Handler = limited
	if cfg.Limiter != nil {
		app = RateLimitMiddleware(cfg.Limiter)(limited)
	}

	mux := http.NewServeMux()
	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	mux.Handle("/", app)

	return Chain(mux,
		RecoverMiddleware(cfg.Logger),
		LoggingMiddleware(cfg.Logger),
	)
}
