package mathutil

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	//BigOne represents a single whole unit with precision 6
	BigOne = uint64(math.Pow10(6))
	//BigOneDecimal represents a single whole unit with precision 6 as decimal.Decimal
	BigOneDecimal = decimal.NewFromInt(int64(BigOne))
)

func init() {
	decimal.DivisionPrecision = 6
}

//ToMicro converts a whole-unit decimal amount to its micro-unit count,
//truncating any precision beyond the sixth decimal place
func ToMicro(amount decimal.Decimal) int64 {
	return amount.Mul(BigOneDecimal).IntPart()
}

//FromMicro converts a micro-unit count to a whole-unit decimal amount
func FromMicro(micro int64) decimal.Decimal {
	return decimal.NewFromInt(micro).Div(BigOneDecimal)
}

//AddDecimal takes two decimal.Decimal numbers and sum them x + y and returns the result as decimal.Decimal
func AddDecimal(X, Y decimal.Decimal) (z decimal.Decimal) {
	z = X.Add(Y)
	return
}

//SumDecimal folds AddDecimal over the given amounts
func SumDecimal(amounts ...decimal.Decimal) (z decimal.Decimal) {
	z = decimal.Zero
	for _, amount := range amounts {
		z = AddDecimal(z, amount)
	}
	return
}
