// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the formatting, validation, citation, extraction,
// and library operations as a JSON HTTP API built on gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/metadata"
	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Server wires the API handlers to their collaborators.
type Server struct {
	cfg       types.ServerConfig
	store     *library.Store
	extractor metadata.Extractor
	resolver  metadata.Resolver
	formatter *reference.Formatter
	logger    *slog.Logger
	now       func() time.Time
	engine    *gin.Engine
}

// Deps holds the collaborators of a Server. Logger and Now are optional.
type Deps struct {
	Store     *library.Store
	Extractor metadata.Extractor
	Resolver  metadata.Resolver
	Logger    *slog.Logger
	Now       func() time.Time
}

// New builds a Server and its routes.
func New(cfg types.ServerConfig, deps Deps) *Server {
	if cfg.Mode != "" {
		gin.SetMode(string(cfg.Mode))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		cfg:       cfg,
		store:     deps.Store,
		extractor: deps.Extractor,
		resolver:  deps.Resolver,
		formatter: reference.NewFormatter(now),
		logger:    logger,
		now:       now,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(s.logger), recovery(s.logger), cors())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		refs := api.Group("/references")
		refs.POST("/format", s.formatReference)
		refs.POST("/validate", s.validateReference)
		refs.POST("/sync", s.syncReferences)
		refs.POST("/csl", s.formatCSL)

		api.POST("/citations", s.generateCitations)
		api.POST("/extract-url", s.extractURL)
		api.POST("/extract-doi", s.extractDOI)

		lib := api.Group("/library")
		lib.GET("", s.listEntries)
		lib.POST("", s.addEntry)
		lib.GET("/export", s.exportEntries)
		lib.DELETE("/:id", s.removeEntry)

		projects := api.Group("/projects")
		projects.GET("", s.listProjects)
		projects.POST("", s.addProject)
		projects.DELETE("/:id", s.removeProject)
	}
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes the error envelope used by every endpoint.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
