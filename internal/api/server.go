package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/edvin/sqlgate/internal/api/handler"
	mw "github.com/edvin/sqlgate/internal/api/middleware"
	"github.com/edvin/sqlgate/internal/config"
	"github.com/edvin/sqlgate/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *sql.DB
	limiter  *limiter.Limiter
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *sql.DB, tokens *core.TokenService, cfg *config.Config, rate limiter.Rate) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: core.NewServices(pool, tokens),
		pool:     pool,
		limiter:  limiter.New(memory.NewStore(), rate),
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(s.limiter))

		auth := handler.NewAuth(s.services.Auth, s.services.User)
		r.Post("/get-token", auth.Token)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(s.services.Auth))

			table := handler.NewTable(s.services.Table)
			r.Get("/get-table/{db_name}/{table_name}", table.Fetch)

			// Admin-only management endpoints.
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)

				r.Post("/register-api-user", auth.Register)

				database := handler.NewDatabase(s.services.Database)
				r.Post("/create-database", database.Create)
				r.Post("/create-db-user", database.CreateUser)

				r.Post("/create-table", table.Create)
				r.Post("/insert-data", table.Insert)
				r.Delete("/delete-table/{db_name}/{table_name}", table.Drop)
			})
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.PingContext(ctx); err != nil {
		checks["mysql"] = err.Error()
		healthy = false
	} else {
		checks["mysql"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
