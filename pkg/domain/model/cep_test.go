package model_test

import (
	"testing"

	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestCEP_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		cep      model.CEP
		expected string
	}{
		{
			name:     "Hyphenated code",
			cep:      "01001-000",
			expected: "01001000",
		},
		{
			name:     "Plain code",
			cep:      "01001000",
			expected: "01001000",
		},
		{
			name:     "Surrounding whitespace",
			cep:      "  20040-020\t",
			expected: "20040020",
		},
		{
			name:     "Multiple hyphens",
			cep:      "0-1001-000",
			expected: "01001000",
		},
		{
			name:     "Empty",
			cep:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, tt.cep.Normalize(), tt.expected)
		})
	}
}

func TestCEP_NormalizeIdempotent(t *testing.T) {
	for _, cep := range []model.CEP{"01001-000", "01001000", " 00000-000 "} {
		once := model.CEP(cep.Normalize())
		gt.Equal(t, once.Normalize(), string(once))
	}
}

func TestNewFound(t *testing.T) {
	t.Run("copies address", func(t *testing.T) {
		addr := &model.Address{Street: "Praça da Sé", City: "São Paulo"}
		result := model.NewFound("01001-000", addr)
		addr.Street = "changed"

		gt.True(t, result.Found)
		gt.Equal(t, result.CEP, model.CEP("01001-000"))
		gt.Equal(t, result.Address.Street, "Praça da Sé")
	})

	t.Run("nil address becomes empty", func(t *testing.T) {
		result := model.NewFound("01001-000", nil)
		gt.Value(t, result.Address).NotNil()
		gt.Equal(t, *result.Address, model.Address{})
	})
}

func TestNewNotFound(t *testing.T) {
	result := model.NewNotFound("00000-000")
	gt.False(t, result.Found)
	gt.Equal(t, result.CEP, model.CEP("00000-000"))
	gt.True(t, result.Address == nil)
}

func TestBatchReport_Add(t *testing.T) {
	report := model.NewBatchReport()
	gt.True(t, report.Empty())

	report.Add(model.NewFound("01001-000", &model.Address{City: "São Paulo"}))
	report.Add(model.NewNotFound("00000-000"))
	report.Add(model.NewFound("20040-020", &model.Address{City: "Rio de Janeiro"}))
	report.Add(nil)

	gt.Equal(t, report.Total(), 3)
	gt.False(t, report.Empty())
	gt.Equal(t, len(report.Found), 2)
	gt.Equal(t, len(report.Invalid), 1)
	gt.Equal(t, report.Found[0].CEP, model.CEP("01001-000"))
	gt.Equal(t, report.Found[1].CEP, model.CEP("20040-020"))
	gt.Equal(t, report.Invalid[0].CEP, model.CEP("00000-000"))
}
