// Package api provides the FanPulse HTTP server. It is a thin boundary over
// the gamification ledger, the leaderboard ranker, and the optimization
// recommendation engine; request handlers are the collaborators that
// invalidate a user's recommendation cache after every relevant mutation.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fanpulse/fanpulse/internal/app/gamification"
	"github.com/fanpulse/fanpulse/internal/app/optimize"
	"github.com/fanpulse/fanpulse/internal/domain"
	"github.com/fanpulse/fanpulse/internal/health"
	"github.com/fanpulse/fanpulse/internal/infra/metrics"
	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

// Server is the FanPulse HTTP API server.
type Server struct {
	db             *sqlite.DB
	ledger         *gamification.Ledger
	ranker         *gamification.Ranker
	optimizer      *optimize.Engine
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(db *sqlite.DB, ledger *gamification.Ledger, ranker *gamification.Ranker, optimizer *optimize.Engine) *Server {
	return &Server{db: db, ledger: ledger, ranker: ranker, optimizer: optimizer}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker wires the component health checker into /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)
	if s.metricsEnabled {
		r.Use(latencyMiddleware)
	}

	r.Get("/health", s.handleHealth)

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "FanPulse is running",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/achievements", s.handleCatalog)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Delete("/optimizations", s.handleClearAllOptimizations)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/profile", s.handleProfile)
			r.Patch("/profile", s.handlePatchProfile)
			r.Patch("/device", s.handlePatchDevice)
			r.Patch("/accessibility", s.handlePatchAccessibility)

			r.Get("/gamification", s.handleGamification)
			r.Post("/experience", s.handleAddExperience)
			r.Get("/experience/log", s.handleExperienceLog)
			r.Post("/achievements/{achievementID}", s.handleGrantAchievement)
			r.Post("/reset", s.handleReset)

			r.Get("/optimizations", s.handleOptimizations)
			r.Delete("/optimizations", s.handleClearOptimizations)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	statuses := s.checker.Statuses()
	healthy := true
	for _, st := range statuses {
		if !st.Healthy {
			healthy = false
			break
		}
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": statuses,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinel errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAchievementNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidPoints):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// latencyMiddleware records request latency under the matched route pattern,
// so path parameters don't explode the label set.
func latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
