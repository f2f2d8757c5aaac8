package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/relnote/pkg/cli/config"
	controller "github.com/m-mizutani/relnote/pkg/controller/http"
	"github.com/m-mizutani/relnote/pkg/infra/cache"
	"github.com/m-mizutani/relnote/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		cacheCfg  config.Cache
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting relnote server",
				slog.String("addr", serverCfg.Addr),
				slog.Int64("cache_capacity", cacheCfg.Capacity),
			)

			githubClient, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure GitHub client")
			}

			store, err := cache.New(int(cacheCfg.Capacity))
			if err != nil {
				return goerr.Wrap(err, "failed to create release notes cache")
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())
			registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			// Create use case
			releaseUC := usecase.NewReleaseNotes(
				githubClient,
				store,
				usecase.WithMetrics(usecase.NewMetrics(registry)),
			)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				releaseUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMetricsRegistry(registry),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
