package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelal/pantrylog/internal/lifecycle"
	"github.com/abelal/pantrylog/internal/metrics"
	"github.com/abelal/pantrylog/internal/report"
	"github.com/abelal/pantrylog/internal/store"
)

// Server is the HTTP boundary: request parsing, actor extraction, and
// error-to-status mapping. All business decisions live in the engine and
// the reporting façade.
type Server struct {
	engine       *lifecycle.Engine
	reports      *report.Service
	catalog      *store.CatalogStore
	mux          *http.ServeMux
	logger       *slog.Logger
	defaultActor string
}

func NewServer(engine *lifecycle.Engine, reports *report.Service, catalog *store.CatalogStore, defaultActor string, logger *slog.Logger) *Server {
	s := &Server{
		engine:       engine,
		reports:      reports,
		catalog:      catalog,
		mux:          http.NewServeMux(),
		logger:       logger,
		defaultActor: defaultActor,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /food-items", s.handleCreateFoodItem)
	s.mux.HandleFunc("GET /food-items", s.handleListFoodItems)
	s.mux.HandleFunc("GET /food-items/{id}", s.handleGetFoodItem)
	s.mux.HandleFunc("PUT /food-items/{id}", s.handleUpdateFoodItem)
	s.mux.HandleFunc("DELETE /food-items/{id}", s.handleDeleteFoodItem)

	s.mux.HandleFunc("POST /lots", s.handleCreateLot)
	s.mux.HandleFunc("GET /lots", s.handleListLots)
	s.mux.HandleFunc("GET /lots/{id}", s.handleGetLot)
	s.mux.HandleFunc("PATCH /lots/{id}/quantity", s.handleAdjustQuantity)
	s.mux.HandleFunc("POST /lots/{id}/consume", s.handleMarkConsumed)
	s.mux.HandleFunc("POST /lots/{id}/expire", s.handleMarkExpired)
	s.mux.HandleFunc("DELETE /lots/{id}", s.handleRemoveLot)
	s.mux.HandleFunc("GET /lots/{id}/history", s.handleHistory)

	s.mux.HandleFunc("GET /reports/expiring", s.handleExpiringSoon)
	s.mux.HandleFunc("GET /reports/usage/{id}", s.handleCatalogUsage)
	s.mux.HandleFunc("GET /logs", s.handleRecentActivity)

	s.mux.HandleFunc("POST /sweep", s.handleSweep)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

		logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// actor resolves who triggered a command. Authentication happens upstream;
// the boundary only forwards an identifier.
func (s *Server) actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return s.defaultActor
}
