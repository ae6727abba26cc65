// Package integration runs the HTTP API against a real PostgreSQL container.
package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"cardapio/internal/auth"
	"cardapio/internal/config"
	"cardapio/internal/database"
	"cardapio/internal/handler"
	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/router"
	"cardapio/internal/seed"
	"cardapio/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// AdminPassword is the default admin password used by the test server.
const AdminPassword = "admin123"

// catalogPath is the seed document shipped with the repository.
const catalogPath = "../../data/seed/catalog.yaml"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema and
// returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, config.DatabaseConfig{
		URL:             connStr,
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCatalog loads the shipped catalog into the database.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) seed.Result {
	t.Helper()

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}
	catalog, err := seed.Parse(data)
	if err != nil {
		t.Fatalf("failed to parse catalog: %v", err)
	}

	logger := zerolog.Nop()
	seeder := seed.NewSeeder(
		repository.NewSettingsRepository(pool, logger),
		repository.NewCategoryRepository(pool, logger),
		repository.NewMenuRepository(pool, logger),
		logger,
	)
	res, err := seeder.Apply(context.Background(), catalog)
	if err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return res
}

// ServerOptions tweaks the test server.
type ServerOptions struct {
	StrictTransitions bool
	Location          *time.Location
}

// NewTestServer wires the full handler stack against pool.
func NewTestServer(pool *pgxpool.Pool, opts ServerOptions) http.Handler {
	logger := zerolog.Nop()

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	settingsRepo := repository.NewSettingsRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	authService := service.NewAuthService(settingsRepo, auth.NewChecker(AdminPassword, bcrypt.MinCost), logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, settingsRepo, service.OrderOptions{
		Location: loc,
		Policy:   model.TransitionPolicy{Strict: opts.StrictTransitions},
	}, logger)

	return router.New(router.Handlers{
		Store:   handler.NewStoreHandler(service.NewStoreService(settingsRepo, categoryRepo, menuRepo, loc, logger), logger),
		Catalog: handler.NewCatalogHandler(service.NewCatalogService(categoryRepo, menuRepo, logger), logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Auth:    handler.NewAuthHandler(authService, logger),
	}, authService, logger)
}

// CleanupDB removes every row written by a test, store settings included.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_items", "orders",
		"menu_item_variants", "menu_items", "categories",
		"delivery_fees", "payment_methods", "store_hours", "stores",
	}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
