package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/safar/gymwear-api/internal/config"
	"github.com/safar/gymwear-api/internal/database"
	"github.com/safar/gymwear-api/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		slog.Error("usage: go run scripts/run_migrations.go [up|down]")
		os.Exit(2)
	}
	direction := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("migrations", cfg.Log.Level)
	ctx := context.Background()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	n, err := database.RunMigrations(ctx, db, "migrations", direction, log)
	if err != nil {
		log.Error("run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("migrations complete", slog.Int("count", n), slog.String("direction", direction))
}
