//go:build ignore

// Checks that the configured database is reachable and reports how much of
// the store schema is populated.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfg := config.DatabaseConfig{
		Host:            envOr("DB_HOST", "localhost"),
		Port:            5432,
		User:            envOr("DB_USER", "postgres"),
		Password:        envOr("DB_PASSWORD", "postgres"),
		Database:        envOr("DB_NAME", "storefront"),
		MaxConnections:  2,
		MinConnections:  1,
		MaxConnLifetime: 60,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	pool, err := database.NewPool(ctx, cfg, logger)
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

	for _, table := range []string{"products", "users", "cart_items", "orders", "order_lines", "order_status_jobs"} {
		var n int64
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			fmt.Printf("  %-18s missing (%v)\n", table, err)
			continue
		}
		fmt.Printf("  %-18s %d rows\n", table, n)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
