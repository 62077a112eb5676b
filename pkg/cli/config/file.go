package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File holds the path of an optional TOML configuration file. Values in the
// file only apply to settings whose flag was not set on the command line or
// via environment variable.
//
//	[viacep]
//	base_url = "https://viacep.com.br/ws"
//	timeout = "5s"
//
//	[batch]
//	delay = "300ms"
//	max_codes = 1000
type File struct {
	Path string
}

type fileContent struct {
	ViaCEP struct {
		BaseURL *string `toml:"base_url"`
		Timeout *string `toml:"timeout"`
	} `toml:"viacep"`
	Batch struct {
		Delay    *string `toml:"delay"`
		MaxCodes *int    `toml:"max_codes"`
	} `toml:"batch"`
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("CEPLOOKUP_CONFIG"),
		},
	}
}

// Apply loads the file, if any, into settings whose flags were not set. isSet
// reports whether a flag was given explicitly, usually (*cli.Command).IsSet.
func (c *File) Apply(isSet func(name string) bool, viaCEP *ViaCEP, batch *Batch) error {
	if c.Path == "" {
		return nil
	}

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	var content fileContent
	if err := toml.Unmarshal(raw, &content); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}

	if viaCEP != nil {
		if v := content.ViaCEP.BaseURL; v != nil && !isSet("viacep-url") {
			viaCEP.BaseURL = *v
		}
		if v := content.ViaCEP.Timeout; v != nil && !isSet("viacep-timeout") {
			d, err := parseDuration(*v, "viacep.timeout")
			if err != nil {
				return err
			}
			if d == 0 {
				return goerr.New("viacep.timeout must be positive", goerr.V("value", *v))
			}
			viaCEP.Timeout = d
		}
	}

	if batch != nil {
		if v := content.Batch.Delay; v != nil && !isSet("batch-delay") {
			d, err := parseDuration(*v, "batch.delay")
			if err != nil {
				return err
			}
			batch.Delay = d
		}
		if v := content.Batch.MaxCodes; v != nil && !isSet("batch-max-codes") {
			if *v < 0 {
				return goerr.New("batch.max_codes must not be negative", goerr.V("max_codes", *v))
			}
			batch.MaxCodes = *v
		}
	}

	return nil
}

func parseDuration(s, key string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid duration in config file", goerr.V("key", key), goerr.V("value", s))
	}
	if d < 0 {
		return 0, goerr.New("duration must not be negative", goerr.V("key", key), goerr.V("value", s))
	}
	return d, nil
}
