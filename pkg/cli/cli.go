package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ceplookup/pkg/cli/config"
	"github.com/m-mizutani/ceplookup/pkg/domain/types"
	"github.com/m-mizutani/ceplookup/pkg/utils/errutil"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	app := &cli.Command{
		Name:    "ceplookup",
		Usage:   "Brazilian postal code (CEP) address lookup",
		Version: types.Version,
		Flags:   append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}
			logger.Debug("Configured", slog.Any("sentry", sentryCfg))

			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdLookup(),
			cmdBatch(),
			cmdTemplate(),
		},
	}

	defer sentry.Flush(2 * time.Second)

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		errutil.Handle(ctxlog.With(ctx, logger), "CLI execution failed", err)
		return err
	}

	return nil
}
