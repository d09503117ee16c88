package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/company-profiler/internal/config"
	"github.com/octobees/company-profiler/internal/database"
	"github.com/octobees/company-profiler/internal/fetcher"
	"github.com/octobees/company-profiler/internal/handler"
	middlewarepkg "github.com/octobees/company-profiler/internal/middleware"
	"github.com/octobees/company-profiler/internal/router"
	"github.com/octobees/company-profiler/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "company-profiler: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closeStore, err := database.OpenProfileStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pageFetcher := fetcher.New(nil, fetcher.Options{
		HomeTimeout:     cfg.Scraper.HomeTimeout,
		DeepPageTimeout: cfg.Scraper.DeepPageTimeout,
		UserAgent:       cfg.Scraper.UserAgent,
		MaxBodyBytes:    cfg.Scraper.MaxBodyBytes,
	})

	scrapeService := service.NewScrapeService(pageFetcher, store)
	companiesService := service.NewCompaniesService(store)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(zap.L()))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Scrape:    handler.NewScrapeHandler(scrapeService),
		Companies: handler.NewCompaniesHandler(companiesService),
	})

	serverErr := make(chan error, 1)
	go func() {
		zap.L().Info("listening",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
		)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		zap.L().Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
	return nil
}
