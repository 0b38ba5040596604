package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgiver/internal/config"
	"foodgiver/internal/domain"
	httpapi "foodgiver/internal/http"
	"foodgiver/internal/logger"
	"foodgiver/internal/repository"
	"foodgiver/internal/service"

	_ "foodgiver/docs"
)

// @title FoodGiver API
// @version 1.0
// @description Food ordering: menu, cart, credits, orders and admin dashboard.
// @host localhost:9091
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyFlags(flag.CommandLine, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: logger.Level(cfg.LogLevel), Format: cfg.LogFormat, Component: "foodgiver"})
	slog.SetDefault(log)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var seed []domain.CatalogItem
	if cfg.CatalogFile != "" {
		if seed, err = service.LoadCatalogFile(cfg.CatalogFile); err != nil {
			log.Error("load catalog file", "path", cfg.CatalogFile, "error", err)
			os.Exit(1)
		}
	}

	state := repository.NewState(store, log)
	catalog := service.NewCatalogService(state, log, seed)
	if err := catalog.Seed(context.Background()); err != nil {
		log.Error("seed catalog", "error", err)
		os.Exit(1)
	}
	ledger := service.NewLedger(state, log)
	profile := service.NewProfileService(state, catalog, log)
	session := service.NewSessionService(state, ledger, profile, log).WithLoginDelay(cfg.LoginDelay)
	orders := service.NewOrderService(state, catalog, ledger, profile, log)
	admin, err := service.NewAdminService(state, orders, catalog, log, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Error("admin service", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(httpapi.Services{
		Catalog: catalog,
		Session: session,
		Ledger:  ledger,
		Cart:    service.NewCartService(state, catalog, log),
		Orders:  orders,
		Profile: profile,
		Admin:   admin,
	}, httpapi.Options{
		Logger:       log,
		SessionKey:   cfg.SessionKey,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSOrigins,
		FeedInterval: cfg.FeedInterval,
	})

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	go srv.Feed().Run(feedCtx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr, "store", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopFeed()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore выбирает хранилище по STORE_DRIVER
func openStore(cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		s, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StorePostgres:
		s, err := repository.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return repository.NewMemoryStore(), func() {}, nil
	}
}
