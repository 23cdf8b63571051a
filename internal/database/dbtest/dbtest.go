// Package dbtest starts throwaway PostgreSQL containers with the application
// schema applied, for use from tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB is a migrated database running in a container.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// Start launches postgres:16-alpine, applies the schema and registers cleanup
// with t. Skipped in -short mode.
func Start(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Truncate empties every application table and resets identity sequences.
func (db *TestDB) Truncate(t *testing.T) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(),
		`TRUNCATE order_status_jobs, order_lines, orders, cart_items, products, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateUser inserts a user with a placeholder password hash and returns its id.
func (db *TestDB) CreateUser(t *testing.T, email string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash, name) VALUES ($1, 'x', 'Test User') RETURNING id`,
		email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return id
}

// SeedProducts inserts a small fixed catalogue with ids 1..5.
func (db *TestDB) SeedProducts(t *testing.T) {
	t.Helper()

	products := []struct {
		id       int64
		name     string
		price    string
		category string
	}{
		{1, "Test Product 1", "10.00", "Category A"},
		{2, "Test Product 2", "20.00", "Category B"},
		{3, "Test Product 3", "30.00", "Category A"},
		{4, "Test Product 4", "40.00", "Category C"},
		{5, "Test Product 5", "50.00", "Category B"},
	}

	ctx := context.Background()
	for _, p := range products {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO products (id, name, description, price, category, image_url, stock, rating, reviews)
			 VALUES ($1, $2, $3, $4::numeric, $5, $6, 10, 4.0, 1)`,
			p.id, p.name, "Description of "+p.name, p.price, p.category, "https://img.example.com/"+p.name,
		)
		if err != nil {
			t.Fatalf("failed to seed product %d: %v", p.id, err)
		}
	}
	if _, err := db.Pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('products', 'id'), 5)`); err != nil {
		t.Fatalf("failed to advance product sequence: %v", err)
	}
}
