package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantStr string
		wantNeg bool
	}{
		{"exact cents", "1520.00", "1520.00", false},
		{"rounds half up", "7.335", "7.34", false},
		{"rounds half away from zero", "-7.335", "-7.34", true},
		{"whole", "38", "38.00", false},
		{"zero", "0", "0.00", false},
		{"rounds to zero", "-0.004", "0.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromDecimal(decimal.RequireFromString(tt.amount), EUR)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, m.String())
			assert.Equal(t, tt.wantNeg, m.IsNegative())
		})
	}
}

func TestNewFromDecimal_UnknownCurrency(t *testing.T) {
	_, err := NewFromDecimal(decimal.NewFromInt(1), "XXX-NOPE")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestSum(t *testing.T) {
	total, err := Sum([]decimal.Decimal{
		decimal.RequireFromString("1000.00"),
		decimal.RequireFromString("234.56"),
		decimal.RequireFromString("-0.005"),
		decimal.RequireFromString("0.005"),
	}, EUR)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", total.String())
	assert.Equal(t, "€1,234.56", total.Display())

	empty, err := Sum(nil, EUR)
	require.NoError(t, err)
	assert.Equal(t, "0.00", empty.String())

	negative, err := Sum([]decimal.Decimal{decimal.RequireFromString("10.50"), decimal.RequireFromString("-20.00")}, EUR)
	require.NoError(t, err)
	assert.True(t, negative.IsNegative())
	assert.Equal(t, "-€9.50", negative.Display())
}

func TestMoney_Nil(t *testing.T) {
	var m *Money
	assert.False(t, m.IsNegative())
	assert.Equal(t, "0.00", m.String())
	assert.Equal(t, "0.00", m.Display())
}
