package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// TrailingSMA returns, for every index, the mean of the `period` prices ending there.
// Indexes without a full window hold NaN.
func TrailingSMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(prices) < period {
		return out
	}
	sma := talib.Sma(prices, period)
	for i := period - 1; i < len(prices) && i < len(sma); i++ {
		out[i] = sma[i]
	}
	return out
}
