package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
)

type lookupUseCase struct {
	client interfaces.AddressClient
}

// NewLookup creates a new instance of LookupUseCase
func NewLookup(client interfaces.AddressClient) interfaces.LookupUseCase {
	return &lookupUseCase{
		client: client,
	}
}

// LookupCEP resolves a postal code. API rejections and transport failures are
// both reported as not found; only the log level tells them apart.
func (uc *lookupUseCase) LookupCEP(ctx context.Context, cep model.CEP) *model.LookupResult {
	logger := ctxlog.From(ctx)

	normalized := cep.Normalize()
	if normalized == "" {
		logger.Debug("Skipping lookup of empty postal code", "cep", cep.String())
		return model.NewNotFound(cep)
	}

	addr, err := uc.client.Lookup(ctx, normalized)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Debug("Postal code not found", "cep", normalized)
		} else {
			logger.Warn("Postal code lookup failed",
				"cep", normalized,
				"error", err,
			)
		}
		return model.NewNotFound(cep)
	}

	logger.Debug("Postal code resolved",
		"cep", normalized,
		"city", addr.City,
		"state", addr.StateCode,
	)

	return model.NewFound(cep, addr)
}
