package config

import "github.com/urfave/cli/v3"

// RateLimit holds per-client rate limit configuration of lookup endpoints
type RateLimit struct {
	RPS   float64
	Burst int
}

// Flags returns CLI flags for rate limit configuration
func (c *RateLimit) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "ratelimit-rps",
			Usage:       "Lookup requests per second allowed per client (0 disables the limit)",
			Value:       1,
			Destination: &c.RPS,
			Sources:     cli.EnvVars("CEPLOOKUP_RATELIMIT_RPS"),
		},
		&cli.IntFlag{
			Name:        "ratelimit-burst",
			Usage:       "Burst size of the per-client lookup limit",
			Value:       3,
			Destination: &c.Burst,
			Sources:     cli.EnvVars("CEPLOOKUP_RATELIMIT_BURST"),
		},
	}
}
