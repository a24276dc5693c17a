package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"church-admin-go/internal/app"
	"church-admin-go/internal/seed"
	"church-admin-go/pkg/logger"
)

func main() {
	path := flag.String("file", "seed.yaml", "path to the seed file")
	flag.Parse()

	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	file, err := seed.Load(*path)
	if err != nil {
		log.Critical("seed: load failed", "file", *path, "err", err)
		os.Exit(1)
	}

	application, err := app.New(log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		os.Exit(1)
	}

	result, err := application.Seeder().Apply(ctx, file)
	closeErr := application.Close()
	if err != nil {
		log.Critical("seed: apply failed", "err", err)
		os.Exit(1)
	}
	if closeErr != nil {
		log.Error("app: close failed", "err", closeErr)
	}

	log.Info("seed: done",
		"admin_id", result.AdminID,
		"churches_created", result.ChurchesCreated,
		"churches_existing", result.ChurchesExisting,
		"assignments_created", result.AssignmentsCreated,
		"assignments_skipped", result.AssignmentsSkipped,
	)
}
