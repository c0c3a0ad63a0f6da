package mathutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMicroConversion(t *testing.T) {
	tests := []struct {
		amount string
		micro  int64
	}{
		{"1", 1000000},
		{"1.5", 1500000},
		{"0.000001", 1},
		{"0.0000019", 1}, // sub-micro precision truncates
		{"1000", 1000000000},
	}
	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.amount)
		assert.Equal(t, tt.micro, ToMicro(amount), tt.amount)
	}

	assert.True(t, FromMicro(1500000).Equal(decimal.RequireFromString("1.5")))
}

func TestSumDecimal(t *testing.T) {
	total := SumDecimal(
		decimal.RequireFromString("1.5"),
		decimal.RequireFromString("2.25"),
		decimal.RequireFromString("0.25"),
	)
	assert.True(t, total.Equal(decimal.RequireFromString("4")))

	assert.True(t, SumDecimal().Equal(decimal.Zero))
}
