package config

import (
	"time"

	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/infra/viacep"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ViaCEP holds address API configuration
type ViaCEP struct {
	BaseURL string
	Timeout time.Duration
}

// Flags returns CLI flags for ViaCEP configuration
func (c *ViaCEP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "viacep-url",
			Usage:       "ViaCEP API base URL",
			Value:       viacep.DefaultBaseURL,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("CEPLOOKUP_VIACEP_URL"),
		},
		&cli.DurationFlag{
			Name:        "viacep-timeout",
			Usage:       "Timeout of a single ViaCEP request",
			Value:       viacep.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("CEPLOOKUP_VIACEP_TIMEOUT"),
		},
	}
}

// Validate checks the configuration. A zero timeout would disable the
// request deadline, so it is rejected.
func (c *ViaCEP) Validate() error {
	if c.BaseURL == "" {
		return goerr.New("viacep-url must not be empty")
	}
	if c.Timeout <= 0 {
		return goerr.New("viacep-timeout must be positive", goerr.V("timeout", c.Timeout))
	}
	return nil
}

// NewClient creates a ViaCEP client from the configuration
func (c *ViaCEP) NewClient() (interfaces.AddressClient, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return viacep.New(
		viacep.WithBaseURL(c.BaseURL),
		viacep.WithTimeout(c.Timeout),
	), nil
}
