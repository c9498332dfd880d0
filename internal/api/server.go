package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/internal/config"
)

// Server is an http.Server plus the time it gets to drain on shutdown.
type Server struct {
	*http.Server
	ShutdownTimeout time.Duration
}

// NewServer wraps handler in a Server listening on cfg.Addr().
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// nil after a clean shutdown and the listen error otherwise.
func Run(ctx context.Context, srv *Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("addr", srv.Addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "serve")
		}
		return nil
	case <-ctx.Done():
	}

	timeout := srv.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	logger.InfoContext(ctx, "shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errCh; err != nil {
		return errors.Wrap(err, "serve")
	}
	logger.InfoContext(ctx, "server stopped")
	return nil
}
