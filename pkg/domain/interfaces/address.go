package interfaces

import (
	"context"

	"github.com/m-mizutani/ceplookup/pkg/domain/model"
)

// AddressClient defines operations for the external address lookup API
type AddressClient interface {
	// Lookup resolves a normalized postal code. It returns model.ErrNotFound when
	// the API reports the code as invalid, and any other error for transport failures.
	Lookup(ctx context.Context, cep string) (*model.Address, error)
}
