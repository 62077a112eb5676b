package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/ceplookup/pkg/cli/config"
	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/ceplookup/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdLookup() *cli.Command {
	var (
		viaCEPCfg config.ViaCEP
		fileCfg   config.File
	)

	return &cli.Command{
		Name:      "lookup",
		Aliases:   []string{"l"},
		Usage:     "Look up one or more postal codes",
		ArgsUsage: "CEP [CEP...]",
		Flags:     append(viaCEPCfg.Flags(), fileCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("at least one postal code is required")
			}

			if err := fileCfg.Apply(c.IsSet, &viaCEPCfg, nil); err != nil {
				return err
			}

			client, err := viaCEPCfg.NewClient()
			if err != nil {
				return err
			}
			lookupUC := usecase.NewLookup(client)
			for _, arg := range c.Args().Slice() {
				printResult(lookupUC.LookupCEP(ctx, model.CEP(arg)))
			}
			return nil
		},
	}
}

var (
	foundColor    = color.New(color.FgGreen, color.Bold)
	notFoundColor = color.New(color.FgRed, color.Bold)
	labelColor    = color.New(color.Faint)
)

func printResult(result *model.LookupResult) {
	w := color.Output

	if !result.Found {
		notFoundColor.Fprintf(w, "✘ %s", result.CEP)
		fmt.Fprintln(w, ": CEP não encontrado ou inválido")
		return
	}

	foundColor.Fprintf(w, "✔ %s\n", result.CEP)
	for _, field := range [][2]string{
		{"Logradouro", result.Address.Street},
		{"Bairro", result.Address.Neighborhood},
		{"Localidade", result.Address.City},
		{"UF", result.Address.StateCode},
	} {
		labelColor.Fprintf(w, "  %-11s", field[0])
		fmt.Fprintln(w, field[1])
	}
}
