package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input    string
		expected TransactionType
		wantErr  bool
	}{
		{"ingreso", TransactionTypeIncome, false},
		{"GASTO", TransactionTypeExpense, false},
		{" Ingreso ", TransactionTypeIncome, false},
		{"income", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransactionType)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	income := &Transaction{Amount: 100, Type: TransactionTypeIncome}
	expense := &Transaction{Amount: 100, Type: TransactionTypeExpense}

	assert.Equal(t, int64(100), income.SignedAmount())
	assert.Equal(t, int64(-100), expense.SignedAmount())
}

func TestNotFoundErrorsWrapSentinel(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrAccountNotFound, ErrCategoryNotFound, ErrTransactionNotFound, ErrGoalNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.ErrorIs(t, ErrCategoryInUse, ErrConflict)
}
