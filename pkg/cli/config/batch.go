package config

import (
	"time"

	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Batch holds batch lookup configuration
type Batch struct {
	Delay    time.Duration
	MaxCodes int
}

// Flags returns CLI flags for batch configuration
func (c *Batch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "batch-delay",
			Usage:       "Pause after each lookup of a batch",
			Value:       usecase.DefaultBatchDelay,
			Destination: &c.Delay,
			Sources:     cli.EnvVars("CEPLOOKUP_BATCH_DELAY"),
		},
		&cli.IntFlag{
			Name:        "batch-max-codes",
			Usage:       "Maximum number of postal codes in a batch (0 for unlimited)",
			Value:       usecase.DefaultMaxCodes,
			Destination: &c.MaxCodes,
			Sources:     cli.EnvVars("CEPLOOKUP_BATCH_MAX_CODES"),
		},
	}
}

// NewUseCase creates a batch use case from the configuration
func (c *Batch) NewUseCase(lookupUC interfaces.LookupUseCase) interfaces.BatchUseCase {
	return usecase.NewBatch(lookupUC,
		usecase.WithDelay(c.Delay),
		usecase.WithMaxCodes(c.MaxCodes),
	)
}
