package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ceplookup/pkg/cli/config"
	"github.com/m-mizutani/ceplookup/pkg/infra/xlsx"
	"github.com/m-mizutani/ceplookup/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdBatch() *cli.Command {
	var (
		viaCEPCfg config.ViaCEP
		batchCfg  config.Batch
		fileCfg   config.File
		input     string
		output    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Workbook with a CEP sheet holding a CEP column",
			Required:    true,
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Path of the results workbook",
			Value:       xlsx.ResultFileName,
			Destination: &output,
		},
	}
	flags = append(flags, viaCEPCfg.Flags()...)
	flags = append(flags, batchCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)

	return &cli.Command{
		Name:    "batch",
		Aliases: []string{"b"},
		Usage:   "Look up every postal code of a workbook and export the results",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := fileCfg.Apply(c.IsSet, &viaCEPCfg, &batchCfg); err != nil {
				return err
			}

			in, err := os.Open(input)
			if err != nil {
				return goerr.Wrap(err, "failed to open input workbook", goerr.V("path", input))
			}
			defer in.Close()

			codes, err := xlsx.ReadCodes(in)
			if err != nil {
				return goerr.Wrap(err, "failed to read postal codes", goerr.V("path", input))
			}

			client, err := viaCEPCfg.NewClient()
			if err != nil {
				return err
			}
			lookupUC := usecase.NewLookup(client)
			report, err := batchCfg.NewUseCase(lookupUC).ProcessBatch(ctx, codes)
			if err != nil {
				return err
			}

			if report.Empty() {
				logger.Warn("No postal codes found in workbook", slog.String("path", input))
				return nil
			}

			if err := writeFile(output, func(f *os.File) error {
				return xlsx.WriteReport(f, report)
			}); err != nil {
				return err
			}

			logger.Info("Results exported",
				slog.String("path", output),
				slog.Int("found", len(report.Found)),
				slog.Int("invalid", len(report.Invalid)),
			)
			return nil
		},
	}
}

// writeFile creates path and passes it to write, removing the file on failure
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
	}

	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close output file", goerr.V("path", path))
	}
	return nil
}
