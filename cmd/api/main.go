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

	"cardapio/internal/auth"
	"cardapio/internal/config"
	"cardapio/internal/database"
	"cardapio/internal/handler"
	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/router"
	"cardapio/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting cardapio API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Repositories
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	checker := auth.NewChecker(cfg.Auth.DefaultPassword, cfg.Auth.BcryptCost)
	loc := cfg.Store.Location()

	// Services
	storeService := service.NewStoreService(settingsRepo, categoryRepo, menuRepo, loc, logger)
	catalogService := service.NewCatalogService(categoryRepo, menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, settingsRepo, service.OrderOptions{
		Location:     loc,
		Policy:       model.TransitionPolicy{Strict: cfg.Store.StrictTransitions},
		ReceiptWidth: cfg.Store.ReceiptWidth,
	}, logger)
	authService := service.NewAuthService(settingsRepo, checker, logger)

	if authService.UsingDefaultPassword(ctx) {
		logger.Warn().Msg("admin is using the default password, change it from the admin panel")
	}

	mux := router.New(router.Handlers{
		Store:   handler.NewStoreHandler(storeService, logger),
		Catalog: handler.NewCatalogHandler(catalogService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Auth:    handler.NewAuthHandler(authService, logger),
	}, authService, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("timezone", loc.String()).
			Bool("strict_transitions", cfg.Store.StrictTransitions).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
