// Package server serves the browser review page and its JSON API.
//
// Every browser tab creates its own session with POST /api/sessions and
// drives it through generate, edit, process and review calls. Sessions live
// in memory and are pruned after a period without changes.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-report/internal/config"
	"github.com/ginjaninja78/order-report/internal/session"
)

const (
	sessionIdleTimeout = 12 * time.Hour
	pruneInterval      = 10 * time.Minute
)

//go:embed web/index.html
var indexHTML []byte

// Server wires the session store to a gin router.
type Server struct {
	config *config.MainConfig
	store  *session.Store
	logger *zap.Logger
	router *gin.Engine

	// now stamps report file names.
	now func() time.Time
}

// New builds a Server with its routes registered.
func New(cfg *config.MainConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: cfg,
		store:  session.NewStore(),
		logger: logger,
		now:    time.Now,
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))

	router.GET("/", s.index)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": s.store.Count(),
		})
	})

	api := router.Group("/api")
	api.Use(noCache())
	{
		api.GET("/defaults", s.getDefaults)
		api.POST("/sessions", s.createSession)

		sessions := api.Group("/sessions/:id")
		sessions.POST("/generate", s.generate)
		sessions.POST("/defaults", s.applyDefaults)
		sessions.GET("/rows", s.listRows)
		sessions.PUT("/rows/:index", s.setRow)
		sessions.PATCH("/rows/:index", s.setField)
		sessions.POST("/process", s.process)
		sessions.GET("/results", s.results)
		sessions.GET("/report.txt", s.downloadReport)
		sessions.GET("/review.xlsx", s.downloadReview)
		sessions.DELETE("", s.clearSession)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Server.Address,
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go s.pruneLoop(ctx)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	timeout := time.Duration(s.config.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited gracefully")
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.store.Prune(sessionIdleTimeout); n > 0 {
				s.logger.Debug("pruned idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
