package httpserver

import (
	"net/http"
	"time"

	"church-admin-go/internal/config"
	"church-admin-go/pkg/logger"
)

// New builds the API server. The write timeout leaves room for the per-route
// request timeout to answer with 503 before the connection is cut.
func New(cfg config.Config, handler http.Handler, log logger.Logger) *http.Server {
	readHeader := cfg.HTTP.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = 5 * time.Second
	}

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeader,
		WriteTimeout:      requestTimeout(cfg.HTTP) + 5*time.Second,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ErrorLog:          logger.StdLogger(log, "http: server error"),
	}
}
