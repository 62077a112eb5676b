package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/ceplookup/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestLookupUseCase_LookupCEP(t *testing.T) {
	tests := []struct {
		name      string
		cep       model.CEP
		wantFound bool
		wantAddr  *model.Address
		wantCalls []string
	}{
		{
			name:      "Resolved hyphenated code",
			cep:       "01001-000",
			wantFound: true,
			wantAddr:  &addrSe,
			wantCalls: []string{"01001000"},
		},
		{
			name:      "Resolved plain code",
			cep:       "01001000",
			wantFound: true,
			wantAddr:  &addrSe,
			wantCalls: []string{"01001000"},
		},
		{
			name:      "Code reported invalid by API",
			cep:       "00000-000",
			wantFound: false,
			wantCalls: []string{"00000000"},
		},
		{
			name:      "Transport failure",
			cep:       "99999-999",
			wantFound: false,
			wantCalls: []string{"99999999"},
		},
		{
			name:      "Blank input is not sent",
			cep:       " - ",
			wantFound: false,
			wantCalls: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTableClient(map[string]model.Address{"01001000": addrSe})
			uc := usecase.NewLookup(client)

			result := uc.LookupCEP(context.Background(), tt.cep)
			gt.Value(t, result).NotNil()
			gt.Equal(t, result.CEP, tt.cep)
			gt.Equal(t, result.Found, tt.wantFound)
			gt.Equal(t, client.lookupCalls, tt.wantCalls)

			if tt.wantAddr != nil {
				gt.Equal(t, *result.Address, *tt.wantAddr)
			} else {
				gt.True(t, result.Address == nil)
			}
		})
	}
}

func TestLookupUseCase_HyphenDoesNotChangeOutcome(t *testing.T) {
	pairs := [][2]model.CEP{
		{"01001-000", "01001000"},
		{"00000-000", "00000000"},
		{"12345-678", "12345678"},
	}

	for _, pair := range pairs {
		t.Run(pair[0].String(), func(t *testing.T) {
			client := newTableClient(map[string]model.Address{"01001000": addrSe})
			uc := usecase.NewLookup(client)

			hyphenated := uc.LookupCEP(context.Background(), pair[0])
			plain := uc.LookupCEP(context.Background(), pair[1])

			gt.Equal(t, hyphenated.Found, plain.Found)
			if hyphenated.Found {
				gt.Equal(t, *hyphenated.Address, *plain.Address)
			}
			gt.Equal(t, client.lookupCalls[0], client.lookupCalls[1])
		})
	}
}

func TestLookupUseCase_EmptyAddressFields(t *testing.T) {
	client := newTableClient(map[string]model.Address{"69900000": {City: "Rio Branco", StateCode: "AC"}})
	uc := usecase.NewLookup(client)

	result := uc.LookupCEP(context.Background(), "69900-000")
	gt.True(t, result.Found)
	gt.Equal(t, *result.Address, model.Address{
		Street:       "",
		Neighborhood: "",
		City:         "Rio Branco",
		StateCode:    "AC",
	})
}
