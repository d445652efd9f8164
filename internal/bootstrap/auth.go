package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novahq/nova-dashboard/config"
	"github.com/novahq/nova-dashboard/internal/adapters/devauth"
	"github.com/novahq/nova-dashboard/internal/adapters/googleid"
	"github.com/novahq/nova-dashboard/internal/data"
	"github.com/novahq/nova-dashboard/internal/ports"
)

// BuildCredentialVerifier selects the credential verifier for the
// configured auth mode. The OIDC verifier performs one discovery fetch
// against the issuer here, so a bad issuer fails startup rather than the
// first login.
//
//nolint:ireturn // returning the port lets callers stay mode-agnostic.
func BuildCredentialVerifier(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.CredentialVerifier, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("using mock credential verifier", "email", cfg.DevAuth.Email)
		}
		verifier, err := devauth.NewVerifier(devauth.Config{
			Email:       cfg.DevAuth.Email,
			DisplayName: cfg.DevAuth.DisplayName,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev verifier: %w", err)
		}
		return verifier, nil
	case config.AuthModeOIDC:
		verifier, err := googleid.NewVerifier(ctx, googleid.Config{
			ClientID: cfg.OIDC.ClientID,
			Issuer:   cfg.OIDC.Issuer,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc verifier: %w", err)
		}
		if logger != nil {
			logger.Info("credential verifier ready", "issuer", cfg.OIDC.Issuer)
		}
		return verifier, nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %q", cfg.Mode)
	}
}

// BuildAllowlistSource selects the allow-list source for the configured
// backend. pool may be nil unless the source is "postgres".
//
//nolint:ireturn // returning the port lets callers stay source-agnostic.
func BuildAllowlistSource(cfg config.AllowlistConfig, pool *pgxpool.Pool) (ports.AllowlistSource, error) {
	switch cfg.Source {
	case config.AllowlistSourceFile:
		return data.NewFileAllowlistSource(cfg.Path), nil
	case config.AllowlistSourcePostgres:
		if pool == nil {
			return nil, fmt.Errorf("allow-list source %q requires a database connection", cfg.Source)
		}
		return data.NewAllowlistRepo(pool), nil
	default:
		return nil, fmt.Errorf("unknown allow-list source: %q", cfg.Source)
	}
}
