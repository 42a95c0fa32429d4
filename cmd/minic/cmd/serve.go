package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	"github.com/msto63/minilang/internal/runner"
	"github.com/msto63/minilang/internal/server"
	"github.com/msto63/minilang/pkg/core/cache"
	"github.com/msto63/minilang/pkg/core/logging"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket check server",
		Long: `Starts the check server.

Endpoints:
  POST /api/v1/tokenize     {"source": "...", "name": "..."}
  POST /api/v1/check        {"source": "...", "name": "..."}
  GET  /api/v1/check/ws     live checking over WebSocket
  GET  /api/v1/history      recorded runs
  GET  /health              health report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			r, err := a.newRunner()
			if err != nil {
				return err
			}
			if a.cfg.Server.CacheSize > 0 {
				resultCache := runner.NewCache(cache.Config{
					MaxItems: a.cfg.Server.CacheSize,
					TTL:      a.cfg.Server.CacheTTL.Duration,
				})
				defer resultCache.Close()
				r.WithCache(resultCache)
			}

			cfg := server.DefaultConfig()
			cfg.Host = a.cfg.Server.Host
			cfg.Port = a.cfg.Server.Port
			cfg.ReadTimeout = a.cfg.Server.ReadTimeout.Duration
			cfg.WriteTimeout = a.cfg.Server.WriteTimeout.Duration

			logger := logging.Wrap(a.logger, "minic-server")
			srv, err := server.New(cfg, r, logger)
			if err != nil {
				return mlerror.Wrap(err, "failed to create server").WithCode(mlerror.CodeInternal)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			logger.Info("minic check server started", "address", srv.Address())

			select {
			case err := <-errCh:
				if err != nil {
					return mlerror.Wrap(err, "server failed").
						WithCode(mlerror.CodeInternal).
						WithDetail("address", srv.Address())
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutdown signal received, stopping server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Error("Error during shutdown", "error", err)
			}
			<-errCh

			logger.Info("minic check server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")
	return cmd
}
