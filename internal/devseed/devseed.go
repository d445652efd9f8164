package devseed

// Package devseed populates the Postgres allow-list with the configured dev
// identity so a fresh local stack can sign in without hand-editing the
// table. It only runs in dev mode with the Postgres allow-list source.

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novahq/nova-dashboard/config"
)

// Run inserts the dev auth identity into allowlist_users. Existing rows are
// left alone, so reruns are harmless.
func Run(ctx context.Context, pool *pgxpool.Pool, cfg config.DevAuthConfig, logger *slog.Logger) error {
	email := strings.TrimSpace(cfg.Email)
	if email == "" {
		return nil
	}

	tag, err := pool.Exec(ctx,
		`INSERT INTO allowlist_users (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, email)
	if err != nil {
		return fmt.Errorf("seed allowlist: %w", err)
	}

	if tag.RowsAffected() > 0 {
		logger.InfoContext(ctx, "seeded dev allow-list entry", "email", email)
	}
	return nil
}
