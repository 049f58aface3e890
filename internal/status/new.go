// Package status exposes a small read-only HTTP surface for operators:
// liveness plus a snapshot of the current run. It never mutates engine state.
package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"consultation-triage/internal/run"
	pkgLog "consultation-triage/pkg/log"
)

// SnapshotFunc returns the report of the current (or last finished) run.
type SnapshotFunc func() run.Report

// Server holds all dependencies for the status server.
type Server struct {
	gin      *gin.Engine
	l        pkgLog.Logger
	port     int
	mode     string
	snapshot SnapshotFunc
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger   pkgLog.Logger
	Port     int
	Mode     string
	Snapshot SnapshotFunc
}

// New creates a new status Server instance.
func New(cfg Config) (*Server, error) {
	gin.SetMode(cfg.Mode)

	srv := &Server{
		gin:      gin.Default(),
		l:        cfg.Logger,
		port:     cfg.Port,
		mode:     cfg.Mode,
		snapshot: cfg.Snapshot,
	}
	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()
	return srv, nil
}

func (srv *Server) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.snapshot == nil {
		return errors.New("snapshot source is required")
	}
	return nil
}

// Run serves until ctx is canceled, then drains with a short grace period.
func (srv *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.port),
		Handler: srv.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "status: listening on :%d", srv.port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
