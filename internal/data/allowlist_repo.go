package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	apperrors "github.com/novahq/nova-dashboard/internal/errors"
)

// AllowlistRepo loads the allow-list from the allowlist_users table. The
// table is read once at process start; the engine never writes to it.
type AllowlistRepo struct {
	pool *pgxpool.Pool
}

// NewAllowlistRepo creates a Postgres-backed allow-list source.
func NewAllowlistRepo(pool *pgxpool.Pool) *AllowlistRepo {
	return &AllowlistRepo{pool: pool}
}

// Load reads every allow-list entry.
func (r *AllowlistRepo) Load(ctx context.Context) ([]domainauth.AllowlistEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM allowlist_users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("query allowlist: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var entries []domainauth.AllowlistEntry
	for rows.Next() {
		var e domainauth.AllowlistEntry
		if err := rows.Scan(&e.Email); err != nil {
			return nil, fmt.Errorf("scan allowlist row: %w", apperrors.MapDBError(err))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allowlist rows: %w", apperrors.MapDBError(err))
	}
	return entries, nil
}
