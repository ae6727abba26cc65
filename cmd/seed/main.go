// Command seed loads the catalog document and upserts it into the database.
//
// Usage:
//
//	seed [-file data/seed/catalog.yaml] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cardapio/internal/config"
	"cardapio/internal/database"
	"cardapio/internal/repository"
	"cardapio/internal/seed"

	"github.com/rs/zerolog"
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

	file := flag.String("file", cfg.Seed.File, "catalog document (.yaml or .yaml.gz)")
	dryRun := flag.Bool("dry-run", false, "validate the catalog without writing it")
	flag.Parse()

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(ctx, cfg, *file, logger)
	if err != nil {
		return err
	}
	logger.Info().
		Int("categories", len(catalog.Categories)).
		Int("menu_items", len(catalog.MenuItems)).
		Msg("catalog parsed")

	if *dryRun {
		logger.Info().Msg("dry run, nothing written")
		return nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	seeder := seed.NewSeeder(
		repository.NewSettingsRepository(pool, logger),
		repository.NewCategoryRepository(pool, logger),
		repository.NewMenuRepository(pool, logger),
		logger,
	)

	res, err := seeder.Apply(ctx, catalog)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info().
		Int("categories_created", res.CategoriesCreated).
		Int("categories_updated", res.CategoriesUpdated).
		Int("items_created", res.ItemsCreated).
		Int("items_updated", res.ItemsUpdated).
		Msg("catalog seeded")
	return nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, path string, logger zerolog.Logger) (*seed.Catalog, error) {
	fileLoader := seed.NewFileLoader(logger)

	var s3Loader seed.Loader
	if cfg.Seed.S3.Enabled {
		l, err := seed.NewS3Loader(ctx, cfg.Seed.S3.Bucket, cfg.Seed.S3.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local file system only")
		} else {
			s3Loader = l
		}
	}

	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3.Prefix, cfg.Seed.S3.Enabled, logger)

	data, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	catalog, err := seed.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}
