package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ceplookup/pkg/cli/config"
	controller "github.com/m-mizutani/ceplookup/pkg/controller/http"
	"github.com/m-mizutani/ceplookup/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		viaCEPCfg    config.ViaCEP
		batchCfg     config.Batch
		rateLimitCfg config.RateLimit
		fileCfg      config.File
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, viaCEPCfg.Flags()...)
	flags = append(flags, batchCfg.Flags()...)
	flags = append(flags, rateLimitCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server with the lookup form",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := fileCfg.Apply(c.IsSet, &viaCEPCfg, &batchCfg); err != nil {
				return err
			}

			logger.Info("Starting ceplookup server",
				slog.String("addr", serverCfg.Addr),
				slog.String("viacep_url", viaCEPCfg.BaseURL),
				slog.Duration("viacep_timeout", viaCEPCfg.Timeout),
				slog.Duration("batch_delay", batchCfg.Delay),
				slog.Int("batch_max_codes", batchCfg.MaxCodes),
			)

			// Create use cases
			client, err := viaCEPCfg.NewClient()
			if err != nil {
				return err
			}
			lookupUC := usecase.NewLookup(client)
			batchUC := batchCfg.NewUseCase(lookupUC)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				lookupUC,
				batchUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithUploadMaxBytes(serverCfg.UploadMaxBytes),
				controller.WithRateLimit(rateLimitCfg.RPS, rateLimitCfg.Burst),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
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
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
			}

			// Graceful shutdown, long enough for a small batch to finish
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
