package repository

import (
	"context"
	"testing"
	"time"

	"cardapio/internal/config"
	"cardapio/internal/database"
	"cardapio/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container, applies the schema and returns a pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPool(ctx, config.DatabaseConfig{URL: connStr, MaxConnections: 5, MinConnections: 1}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// truncate empties every table between subtests.
func truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE order_items, orders, menu_item_variants, menu_items, categories,
		         delivery_fees, payment_methods, store_hours, stores
	`)
	require.NoError(t, err)
}

func seedCategory(t *testing.T, repo CategoryRepository, id, name string) model.Category {
	t.Helper()
	c := model.Category{ID: id, Name: name, Icon: "utensils"}
	require.NoError(t, repo.Create(context.Background(), &c))
	return c
}

func strPtr(s string) *string { return &s }
