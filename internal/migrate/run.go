package migrate

// Package migrate applies the embedded SQL migrations that back the
// Postgres allow-list source. Migrations run at startup, before the
// allow-list is loaded, and only when the Postgres source is configured.

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run applies all embedded migrations in filename order. It is safe to call
// multiple times; applied versions are recorded in schema_migrations.
func Run(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		if err := applyMigration(ctx, pool, f); err != nil {
			return err
		}
	}
	return nil
}

func migrationExists(ctx context.Context, pool *pgxpool.Pool, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := pool.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, file string) error {
	version := strings.TrimSuffix(file, ".sql")

	exists, err := migrationExists(ctx, pool, version)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	sqlBytes, err := migrationsFS.ReadFile("migrations/" + file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}

	logger := slog.Default().With("component", "migrations")
	logger.InfoContext(ctx, "applying migration", "version", version)

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, execErr := tx.Exec(ctx, string(sqlBytes)); execErr != nil {
			return fmt.Errorf("exec migration %s: %w", file, execErr)
		}
		if _, insertErr := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, version); insertErr != nil {
			return fmt.Errorf("record migration %s: %w", file, insertErr)
		}
		return nil
	})
}
