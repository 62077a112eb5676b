package interfaces

import (
	"context"

	"github.com/m-mizutani/ceplookup/pkg/domain/model"
)

// LookupUseCase resolves a single postal code
type LookupUseCase interface {
	// LookupCEP looks up a postal code. Every failure collapses into a not found result.
	LookupCEP(ctx context.Context, cep model.CEP) *model.LookupResult
}

// BatchUseCase resolves a list of postal codes sequentially
type BatchUseCase interface {
	// ProcessBatch looks up every non-empty code in order and splits the results
	// into found and invalid entries
	ProcessBatch(ctx context.Context, ceps []model.CEP) (*model.BatchReport, error)
}
