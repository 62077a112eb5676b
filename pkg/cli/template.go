package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ceplookup/pkg/infra/xlsx"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdTemplate() *cli.Command {
	var output string

	return &cli.Command{
		Name:  "template",
		Usage: "Write an example input workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path of the template workbook",
				Value:       xlsx.TemplateFileName,
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := writeFile(output, func(f *os.File) error {
				return xlsx.WriteTemplate(f)
			}); err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Template written", "path", output)
			return nil
		},
	}
}
