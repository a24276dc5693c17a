package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Run serves HTTP until ctx is done or the listener fails, then drains
// in-flight requests within the configured shutdown timeout. It does not
// release the database or broker connections; call Close for that.
func (a *App) Run(ctx context.Context) error {
	srv := a.httpServer
	a.log.Info("http: listening", "addr", srv.Addr, "auth_provider", a.cfg.Auth.Provider)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			runErr = fmt.Errorf("http server on %s: %w", srv.Addr, err)
		}
	}

	timeout := a.cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown: %w", err))
	}
	return runErr
}
