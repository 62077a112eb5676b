package http_test

import (
	"context"
	"sync"

	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/ceplookup/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// stubLookup resolves only codes present in its table
type stubLookup struct {
	mu    sync.Mutex
	table map[string]model.Address
	calls []model.CEP
}

func (s *stubLookup) LookupCEP(ctx context.Context, cep model.CEP) *model.LookupResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cep)

	if addr, ok := s.table[cep.Normalize()]; ok {
		return model.NewFound(cep, &addr)
	}
	return model.NewNotFound(cep)
}

var addrSe = model.Address{
	Street:       "Praça da Sé",
	Neighborhood: "Sé",
	City:         "São Paulo",
	StateCode:    "SP",
}

// newUseCases returns a lookup stub and a batch use case running on top of it
// without delay
func newUseCases(maxCodes int) (*stubLookup, interfaces.BatchUseCase) {
	lookup := &stubLookup{table: map[string]model.Address{"01001000": addrSe}}
	return lookup, usecase.NewBatch(lookup, usecase.WithDelay(0), usecase.WithMaxCodes(maxCodes))
}

// interruptedBatch fails the way the batch use case does when its context is
// canceled between lookups
type interruptedBatch struct{}

func (interruptedBatch) ProcessBatch(ctx context.Context, _ []model.CEP) (*model.BatchReport, error) {
	return nil, goerr.Wrap(ctx.Err(), "batch interrupted")
}
