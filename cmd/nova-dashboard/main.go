package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novahq/nova-dashboard/config"
	"github.com/novahq/nova-dashboard/internal/bootstrap"
	"github.com/novahq/nova-dashboard/internal/devseed"
	"github.com/novahq/nova-dashboard/internal/migrate"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting nova-dashboard",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"allowlist_source", cfg.Allowlist.Source,
		"dev", cfg.IsDev)

	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cfg.Redis,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	// Postgres only backs the allow-list; skip it entirely otherwise.
	var pool *pgxpool.Pool
	if cfg.Allowlist.Source == config.AllowlistSourcePostgres {
		pool, err = bootstrap.ConnectPostgres(ctx, bootstrap.DatabaseConfig{
			DBConfig: cfg.Postgres,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		if err = migrate.Run(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		if cfg.IsDev {
			if err = devseed.Run(ctx, pool, cfg.Auth.DevAuth, logger); err != nil {
				return fmt.Errorf("seed dev allow-list: %w", err)
			}
		}
	}

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		DBPool:      pool,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	bootstrap.WarmDatasets(ctx, services.Datasets, logger)

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	return bootstrap.RunWithShutdown(ctx, server, cfg.HTTP, logger)
}
