package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		input    string
		expected AccountType
	}{
		{"Checking", AccountTypeChecking},
		{"creditcard", AccountTypeCreditCard},
		{"Tarjeta de Crédito", AccountTypeCreditCard},
		{"cuenta vista", AccountTypeVista},
		{"DEUDA", AccountTypeDeuda},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseAccountType("brokerage")
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestAccountType_DescriptionCoversAllTypes(t *testing.T) {
	assert.Len(t, AccountTypes, 8)
	for _, at := range AccountTypes {
		assert.NotEmpty(t, at.Description(), "missing label for %s", at)
	}
	assert.Equal(t, "Efectivo", AccountTypeCash.Description())
}
