package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/domain"
	"github.com/diego64/help-me-sub001/internal/infrastructure/http/handlers"
	"github.com/diego64/help-me-sub001/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler   *handlers.AuthHandler
	HealthHandler *handlers.HealthHandler
	// AuthGate authenticates bearer tokens for the protected group.
	AuthGate    func(http.Handler) http.Handler
	Secure      func(http.Handler) http.Handler
	IPRateLimit func(http.Handler) http.Handler
	Metrics     bool // expose /metrics
	Log         zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		r.Post("/password/strength", cfg.AuthHandler.PasswordStrength)

		// Routes that require a verified, unrevoked access token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthGate)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/me", cfg.AuthHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(domain.RoleAdmin))
				r.Get("/password/generate", cfg.AuthHandler.GeneratePassword)
			})
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
