package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentmatch/internal/aggregator"
	"talentmatch/internal/app"
	"talentmatch/internal/config"
	"talentmatch/internal/database/migration"
	"talentmatch/internal/database/seeder"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	fetcher := aggregator.NewPageFetcher(logger, false)

	c, err := app.NewContainer(cfg, logger, fetcher, nil)
	if err != nil {
		logger.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	if err := (migration.Runner{Dir: "migrations"}).Run(migCtx, c.DB.SQLDB()); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(migCtx, c.DB); err != nil {
		logger.Fatalf("seed failed: %v", err)
	}

	a := app.New(c)
	go a.Hub.Run()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		logger.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("server error: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
			logger.Printf("shutdown error: %v", err)
		}
	}
}
