// Package server provides the HTTP API for MESRAG.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mesrag/mesrag/internal/config"
	"github.com/mesrag/mesrag/internal/embedding"
	"github.com/mesrag/mesrag/internal/models"
	"go.uber.org/zap"
)

// Importer runs one ingestion pass over the pending directory.
type Importer interface {
	Run(ctx context.Context) (models.ImportReport, error)
}

// Answerer produces a chat response for a query.
type Answerer interface {
	Answer(ctx context.Context, query string) models.ChatResponse
}

// Server is the HTTP server for the MESRAG API.
type Server struct {
	importer Importer
	embedder embedding.Embedder
	answerer Answerer
	config   config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	importer Importer,
	embedder embedding.Embedder,
	answerer Answerer,
	cfg config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		importer: importer,
		embedder: embedder,
		answerer: answerer,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the API router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/trigger-import", s.handleTriggerImport)
	r.Post("/embed", s.handleEmbed)
	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
