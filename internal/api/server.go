// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves the periodic table store over a JSON REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/periodic-table/internal/logging"
	"github.com/pdiddy/periodic-table/pkg/types"
)

const (
	defaultAddr     = ":8000"
	shutdownTimeout = 10 * time.Second
)

// Server runs the REST API with graceful shutdown.
type Server struct {
	router *gin.Engine
	server *http.Server
	log    logging.Logger
}

// NewRouter builds the gin engine with middleware and routes. The metrics
// collectors are registered with reg and exposed on /metrics.
func NewRouter(repo Repository, log logging.Logger, reg *prometheus.Registry) *gin.Engine {
	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware(NewMetrics(reg)))

	h := NewHandler(repo)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := router.Group("/api")

	elements := api.Group("/elements")
	elements.GET("", h.ListElements)
	elements.POST("", h.CreateElement)
	elements.GET("/:atomic_number", h.GetElement)
	elements.PUT("/:atomic_number", h.UpdateElement)
	elements.PATCH("/:atomic_number", h.PatchElement)
	elements.DELETE("/:atomic_number", h.DeleteElement)
	elements.GET("/:atomic_number/ionisation-energies", h.IonisationEnergies)

	isotopes := api.Group("/isotopes")
	isotopes.GET("", h.ListIsotopes)
	isotopes.POST("", h.CreateIsotope)
	isotopes.GET("/:id", h.GetIsotope)
	isotopes.PUT("/:id", h.UpdateIsotope)
	isotopes.PATCH("/:id", h.PatchIsotope)
	isotopes.DELETE("/:id", h.DeleteIsotope)

	return router
}

// NewServer creates a Server for repo. It sets the gin mode from cfg.Debug.
func NewServer(cfg types.ServerConfig, repo Repository, log logging.Logger) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}
	router := NewRouter(repo, log, reg)
	return &Server{
		router: router,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("Starting HTTP server",
		logging.String("address", ln.Addr().String()),
		logging.Duration("read_timeout", s.server.ReadTimeout),
		logging.Duration("write_timeout", s.server.WriteTimeout),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}
