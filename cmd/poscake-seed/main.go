// Command poscake-seed migrates the database named by DATABASE_URL and seeds
// it with the reference dataset. Running it again changes nothing.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyenlanh282/poscake-skill/internal/config"
	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/logger"
	"github.com/nguyenlanh282/poscake-skill/internal/seed"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()
	logger.Init("poscake-seed", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	log := logger.WithContext(ctx)
	log.Info().Str("dialect", db.Dialect.Name).Msg("connected")

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if _, err := seed.Seed(ctx, store.New(db), seed.Options{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Logger:        log,
	}); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return nil
}
