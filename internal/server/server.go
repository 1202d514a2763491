package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sistema-vendas/internal/config"
	custommiddleware "sistema-vendas/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// HealthChecker is the part of the database service the probes depend on
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
	Close() error
}

// Server exposes liveness and database readiness probes
type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     HealthChecker
}

func NewServer(cfg *config.Config, logger *zap.Logger, db HealthChecker) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats := db.Health(r.Context())
		if stats["status"] != "up" {
			details := make(map[string]interface{}, len(stats))
			for k, v := range stats {
				details[k] = v
			}
			custommiddleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, "database unavailable", details)
			return
		}

		custommiddleware.RespondWithJSON(w, http.StatusOK, stats)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "route not found")
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			return err
		}
	}

	return nil
}
