package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultBatchDelay is the pause after each lookup of a batch
	DefaultBatchDelay = 300 * time.Millisecond

	// DefaultMaxCodes is the default batch size limit
	DefaultMaxCodes = 1000
)

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

type batchUseCase struct {
	lookupUC interfaces.LookupUseCase
	delay    time.Duration
	maxCodes int
	sleep    SleepFunc
}

// BatchOption is a functional option for the batch use case
type BatchOption func(*batchUseCase)

// WithDelay sets the pause after each lookup
func WithDelay(d time.Duration) BatchOption {
	return func(uc *batchUseCase) {
		uc.delay = d
	}
}

// WithMaxCodes sets the maximum number of non-empty codes in a batch. Zero disables the limit.
func WithMaxCodes(n int) BatchOption {
	return func(uc *batchUseCase) {
		uc.maxCodes = n
	}
}

// WithSleep replaces the function used to pause between lookups
func WithSleep(fn SleepFunc) BatchOption {
	return func(uc *batchUseCase) {
		uc.sleep = fn
	}
}

// NewBatch creates a new instance of BatchUseCase
func NewBatch(lookupUC interfaces.LookupUseCase, opts ...BatchOption) interfaces.BatchUseCase {
	uc := &batchUseCase{
		lookupUC: lookupUC,
		delay:    DefaultBatchDelay,
		maxCodes: DefaultMaxCodes,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessBatch looks up codes one at a time in input order, pausing after each
// lookup. Blank codes are dropped before processing.
func (uc *batchUseCase) ProcessBatch(ctx context.Context, ceps []model.CEP) (*model.BatchReport, error) {
	codes := make([]model.CEP, 0, len(ceps))
	for _, cep := range ceps {
		if strings.TrimSpace(cep.String()) == "" {
			continue
		}
		codes = append(codes, cep)
	}

	if uc.maxCodes > 0 && len(codes) > uc.maxCodes {
		return nil, goerr.Wrap(model.ErrTooManyCodes, "batch rejected",
			goerr.V("count", len(codes)),
			goerr.V("max", uc.maxCodes),
		)
	}

	batchID := uuid.NewString()
	logger := ctxlog.From(ctx).With("batch_id", batchID)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Processing batch",
		"count", len(codes),
		"dropped", len(ceps)-len(codes),
		"delay", uc.delay,
	)
	start := time.Now()

	report := model.NewBatchReport()
	for i, cep := range codes {
		report.Add(uc.lookupUC.LookupCEP(ctx, cep))

		if err := uc.sleep(ctx, uc.delay); err != nil {
			logger.Warn("Batch interrupted",
				"processed", i+1,
				"count", len(codes),
				"error", err,
			)
			return nil, goerr.Wrap(err, "batch interrupted", goerr.V("processed", i+1))
		}
	}

	logger.Info("Batch completed",
		"found", len(report.Found),
		"invalid", len(report.Invalid),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
