package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/novahq/nova-dashboard/config"
	redisadapter "github.com/novahq/nova-dashboard/internal/adapters/redis"
	"github.com/novahq/nova-dashboard/internal/data"
	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	"github.com/novahq/nova-dashboard/internal/gateway"
	"github.com/novahq/nova-dashboard/internal/service"
)

// ServiceDeps holds the shared infrastructure the service layer is built on.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	DBPool      *pgxpool.Pool // nil unless the allow-list source is postgres
	Logger      *slog.Logger
}

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Sessions *service.SessionService
	Datasets *service.DatasetService
	Views    *service.ViewRegistry
}

// NewServices wires the full service graph: verifier, allow-list,
// authorizer, session store, dataset gateway, dataset cache, and the
// per-session view registry.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger

	verifier, err := BuildCredentialVerifier(ctx, cfg.Auth, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	allowlistSource, err := BuildAllowlistSource(cfg.Allowlist, deps.DBPool)
	if err != nil {
		return ServiceContainer{}, err
	}
	authorizer, err := service.NewAuthorizerService(ctx, service.AuthorizerServiceOptions{
		Source: allowlistSource,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build authorizer: %w", err)
	}

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Verifier:   verifier,
		Sessions:   redisadapter.NewSessionStore(deps.RedisClient, cfg.Auth.SessionTTL),
		Authorizer: authorizer,
		Logger:     logger,
	})

	datasets := service.NewDatasetService(service.DatasetServiceOptions{
		Fetcher:    gateway.NewClient(gateway.ClientOptions{Config: cfg.Datasets, Logger: logger}),
		Cache:      data.NewRedisCacheRepo(deps.RedisClient),
		StaleAfter: cfg.Datasets.StaleAfter,
		EvictAfter: cfg.Datasets.EvictAfter,
		Logger:     logger,
	})

	return ServiceContainer{
		Sessions: sessions,
		Datasets: datasets,
		Views:    service.NewViewRegistry(),
	}, nil
}

// WarmDatasets fetches both datasets in parallel so the first dashboard
// request is served from memory. A failed warm-up is logged and left for a
// later request to retry; it never blocks startup.
func WarmDatasets(ctx context.Context, datasets *service.DatasetService, logger *slog.Logger) {
	g, ctx := errgroup.WithContext(ctx)
	for _, mode := range []dataset.Mode{dataset.ModeProfiles, dataset.ModeCards} {
		g.Go(func() error {
			if _, err := datasets.Records(ctx, mode); err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "dataset warm-up failed", "mode", mode, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}
