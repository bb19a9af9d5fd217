// Package api exposes the dashboard-facing JSON surface: template CRUD, the
// two-call review/publish derivation protocol, and the published job feed.
package api

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	logger   *zap.Logger
	handlers *Handlers
	srv      *http.Server
}

func NewServer(logger *zap.Logger, handlers *Handlers, addr string) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /templates", handlers.CreateTemplate)
	mux.HandleFunc("GET /templates", handlers.ListTemplates)
	mux.HandleFunc("GET /templates/{id}", handlers.GetTemplate)
	mux.HandleFunc("PUT /templates/{id}", handlers.UpdateTemplate)
	mux.HandleFunc("DELETE /templates/{id}", handlers.DeleteTemplate)

	mux.HandleFunc("POST /templates/{id}/jobs/review", handlers.ReviewJob)
	mux.HandleFunc("POST /templates/{id}/jobs/publish", handlers.PublishJob)

	mux.HandleFunc("GET /jobs", handlers.ListJobs)
	mux.HandleFunc("GET /jobs/{id}", handlers.GetJob)

	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)

	return &Server{
		logger:   logger,
		handlers: handlers,
		srv: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}
}

// Register ties the listener to the fx lifecycle.
func (s *Server) Register(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
				if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.srv.Shutdown(ctx)
		},
	})
}
