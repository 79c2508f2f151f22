package store

import (
	"context"
	"fmt"
)

// migrationLockID is the advisory lock guarding concurrent migrations.
const migrationLockID int64 = 7355608101

// migration is a single versioned DDL step.
type migration struct {
	version string
	name    string
	sql     string
}

// migrations is the fixed schema, applied in order. The schema never needs
// generation or diffing: six tables with the constraints the storefront
// relies on.
var migrations = []migration{
	{
		version: "20250901000001",
		name:    "create_users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id BIGINT PRIMARY KEY,
				username TEXT NOT NULL DEFAULT '',
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT ''
			);
		`,
	},
	{
		version: "20250901000002",
		name:    "create_products",
		sql: `
			CREATE TABLE IF NOT EXISTS products (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price BIGINT NOT NULL,
				image TEXT NOT NULL DEFAULT ''
			);
		`,
	},
	{
		version: "20250901000003",
		name:    "create_carts",
		sql: `
			CREATE TABLE IF NOT EXISTS carts (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL UNIQUE REFERENCES users(id)
			);
		`,
	},
	{
		version: "20250901000004",
		name:    "create_cart_items",
		sql: `
			CREATE TABLE IF NOT EXISTS cart_items (
				id BIGSERIAL PRIMARY KEY,
				cart_id BIGINT NOT NULL REFERENCES carts(id),
				product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				quantity BIGINT NOT NULL CHECK (quantity >= 1),
				UNIQUE (cart_id, product_id)
			);
		`,
	},
	{
		version: "20250901000005",
		name:    "create_orders",
		sql: `
			CREATE TABLE IF NOT EXISTS orders (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		version: "20250901000006",
		name:    "create_order_items",
		sql: `
			CREATE TABLE IF NOT EXISTS order_items (
				id BIGSERIAL PRIMARY KEY,
				order_id BIGINT NOT NULL REFERENCES orders(id),
				product_id BIGINT NOT NULL REFERENCES products(id),
				quantity BIGINT NOT NULL
			);
		`,
	},
}

// Migrate applies any unapplied schema migrations, serialized across
// processes with a PostgreSQL advisory lock.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(14) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = s.pool.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	for _, m := range migrations {
		applied, err := s.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %s (%s) failed: %w", m.version, m.name, err)
		}
	}

	return nil
}

func (s *Store) migrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// applyMigration runs a single migration and its bookkeeping row in one
// transaction so a crash mid-way leaves no half-applied version.
func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		return &QueryError{Query: m.sql, Err: err}
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
		m.version, m.name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
