package usecase_test

import (
	"context"
	"errors"

	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// MockAddressClient is a mock implementation of AddressClient
type MockAddressClient struct {
	lookupFunc  func(ctx context.Context, cep string) (*model.Address, error)
	lookupCalls []string
}

func (m *MockAddressClient) Lookup(ctx context.Context, cep string) (*model.Address, error) {
	m.lookupCalls = append(m.lookupCalls, cep)
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, cep)
	}
	return nil, errors.New("mock not configured")
}

var errNetwork = errors.New("connection refused")

// newTableClient resolves codes present in the table, reports "00000000" as
// invalid and fails every other code with a transport error
func newTableClient(table map[string]model.Address) *MockAddressClient {
	return &MockAddressClient{
		lookupFunc: func(ctx context.Context, cep string) (*model.Address, error) {
			if addr, ok := table[cep]; ok {
				return &addr, nil
			}
			if cep == "00000000" {
				return nil, goerr.Wrap(model.ErrNotFound, "api error", goerr.V("cep", cep))
			}
			return nil, errNetwork
		},
	}
}

var addrSe = model.Address{
	Street:       "Praça da Sé",
	Neighborhood: "Sé",
	City:         "São Paulo",
	StateCode:    "SP",
}

var addrCentro = model.Address{
	Street:       "Rua Primeiro de Março",
	Neighborhood: "Centro",
	City:         "Rio de Janeiro",
	StateCode:    "RJ",
}
