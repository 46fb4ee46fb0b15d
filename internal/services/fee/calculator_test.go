package fee

import (
	"testing"

	"digiwallet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name   string
		amount float64
		txType models.TransactionType
		want   Breakdown
	}{
		{
			name:   "cash out splits 1.85% fee half and half",
			amount: 200,
			txType: models.TransactionTypeCashOut,
			want:   Breakdown{Fee: 3.7, NetAmount: 196.3, AdminCut: 1.85, AgentCut: 1.85},
		},
		{
			name:   "cash out rounds each field to 2 decimals",
			amount: 999,
			txType: models.TransactionTypeCashOut,
			// 999 * 0.0185 = 18.4815 -> 18.48; admin 9.24; agent = fee - admin
			want: Breakdown{Fee: 18.48, NetAmount: 980.52, AdminCut: 9.24, AgentCut: 9.24},
		},
		{
			name:   "cash in is free",
			amount: 50,
			txType: models.TransactionTypeCashIn,
			want:   Breakdown{Fee: 0, NetAmount: 50, AdminCut: 0, AgentCut: 0},
		},
		{
			name:   "send money charges a flat 5",
			amount: 100,
			txType: models.TransactionTypeSendMoney,
			want:   Breakdown{Fee: 5, NetAmount: 95, AdminCut: 5, AgentCut: 5},
		},
		{
			name:   "admin credit is free",
			amount: 1000,
			txType: models.TransactionTypeAdminCredit,
			want:   Breakdown{Fee: 0, NetAmount: 1000, AdminCut: 0, AgentCut: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(tt.amount, tt.txType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_Calculate_InvalidType(t *testing.T) {
	calc := NewCalculator()
	_, err := calc.Calculate(100, models.TransactionType("REFUND"))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestCalculator_Calculate_Deterministic(t *testing.T) {
	calc := NewCalculator()
	first, err := calc.Calculate(123.45, models.TransactionTypeCashOut)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := calc.Calculate(123.45, models.TransactionTypeCashOut)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
