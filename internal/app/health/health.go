// Package health поднимает небольшой HTTP-сервер воркера:
// проверка живости и метрики Prometheus.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/premium-group-bot/internal/http/response"
)

// Server HTTP-сервер служебных конечных точек.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// New создаёт сервер с маршрутами /health и /metrics.
func New(address string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OKWithData(map[string]any{
			"status": "ok",
		}))
	})
	router.Handle("/metrics", promhttp.Handler())

	return &Server{
		server: &http.Server{
			Addr:         address,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run блокирует до отмены контекста, после чего мягко гасит сервер.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("health server starting on", slog.String("address", s.server.Addr))
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down health server gracefully")
		return s.server.Shutdown(timeoutCtx)
	}
}
