package web

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/logging"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// HeaderUserID carries the authenticated user id set by the upstream auth layer.
const HeaderUserID = "X-User-ID"

// HeaderRequestID carries the request id; one is generated when absent.
const HeaderRequestID = "X-Request-ID"

const shutdownTimeout = 10 * time.Second

// Server exposes the timer engine over JSON HTTP
type Server struct {
	timers    services.TimerService
	durations services.DurationService
	watcher   services.CompletionWatcher
	validator *validation.TimeEntryValidator
	metrics   *metrics.Metrics
	router    *gin.Engine
}

// NewServer creates a new web server. mode is a gin mode ("release", "debug", "test").
func NewServer(svc *services.ServiceContainer, v *validation.Validator, m *metrics.Metrics, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()

	s := &Server{
		timers:    svc.TimerService,
		durations: svc.DurationService,
		watcher:   svc.CompletionWatcher,
		validator: validation.NewTimeEntryValidator(v),
		metrics:   m,
		router:    router,
	}

	router.Use(gin.Recovery(), requestIDMiddleware(), metricsMiddleware(m))

	router.GET("/healthz", s.handleHealth)
	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	}

	api := router.Group("/api", userMiddleware())
	{
		api.POST("/timers", s.handleStartTimer)
		api.POST("/timers/:id/stop", s.handleStopTimer)
		api.GET("/timers/active", s.handleActiveTimers)

		api.GET("/cards/:id/entries", s.handleCardEntries)
		api.GET("/cards/:id/total", s.handleCardTotal)

		api.PATCH("/entries/:id", s.handleEditEntry)
		api.DELETE("/entries/:id", s.handleDeleteEntry)

		api.PUT("/subtasks/:id/status", s.handleSubtaskStatus)
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.InfoContext(ctx, "http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logging.InfoContext(ctx, "http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
