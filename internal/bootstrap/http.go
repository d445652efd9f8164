package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/novahq/nova-dashboard/config"
	httpx "github.com/novahq/nova-dashboard/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	router := httpx.NewRouter(httpx.RouterServices{
		Sessions:     cfg.Services.Sessions,
		Views:        cfg.Services.Views,
		Datasets:     cfg.Services.Datasets,
		CookieName:   appCfg.Auth.CookieName,
		CookieDomain: appCfg.HTTP.CookieDomain,
		SessionTTL:   appCfg.Auth.SessionTTL,
		Logger:       logger,
	})

	// Order: Recover -> Logging -> Router
	handler := httpx.Logging(logger)(router)
	handler = httpx.Recover(logger)(handler)

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// RunWithShutdown blocks until SIGINT or SIGTERM, then shuts the server
// down gracefully within the configured timeout.
func RunWithShutdown(ctx context.Context, server *http.Server, cfg config.HTTPConfig, logger *slog.Logger) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
