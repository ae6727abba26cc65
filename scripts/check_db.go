//go:build ignore

// check_db connects with the service configuration and reports row counts.
//
//	go run scripts/check_db.go
package main

import (
	"context"
	"fmt"
	"os"

	"cardapio/internal/config"
	"cardapio/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, config.NewLogger(cfg.Logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	for _, table := range []string{"stores", "categories", "menu_items", "menu_item_variants", "orders", "order_items"} {
		var n int64
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			fmt.Printf("  %-20s missing (%v)\n", table, err)
			continue
		}
		fmt.Printf("  %-20s %d rows\n", table, n)
	}
}
