package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"church-admin-go/internal/app"
	"church-admin-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()
	log.Info("church-admin: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(log)
	if err != nil {
		log.Critical("church-admin: init failed", "err", err)
		os.Exit(1)
	}

	exitCode := 0
	if err := application.Run(ctx); err != nil {
		log.Critical("church-admin: server stopped with error", "err", err)
		exitCode = 1
	}
	if err := application.Close(); err != nil {
		log.Error("church-admin: close failed", "err", err)
		exitCode = 1
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	log.Info("church-admin: stopped")
}
