package indicator

import (
	"math"

	"github.com/kritika-v/stockwatch/backend/internal/models"
)

// RSIPeriod is the rolling window used for the RSI series.
const RSIPeriod = 14

// Snapshot holds the indicators computed for one ticker on one request.
type Snapshot struct {
	RSI         []float64
	Beta        float64
	TrailingPE  float64
	ForwardPE   float64
	PriceToBook float64
}

// Compute derives the full indicator snapshot from a quote. Bars must be in
// ascending date order.
func Compute(q *models.Quote) *Snapshot {
	return &Snapshot{
		RSI:         RSISeries(Closes(q.Bars), RSIPeriod),
		Beta:        AsFloat(q.Fundamentals["beta"]),
		TrailingPE:  AsFloat(q.Fundamentals["trailingPE"]),
		ForwardPE:   AsFloat(q.Fundamentals["forwardPE"]),
		PriceToBook: AsFloat(q.Fundamentals["priceToBook"]),
	}
}

// RSISeries computes the rolling-mean RSI over the close prices. The result
// is aligned with the input: index i holds the RSI of closes[0..i], and
// indices with fewer than period prior changes are NaN. This is the plain
// rolling-mean variant, not Wilder's smoothed one: average gain and loss at i
// are simple means over the most recent period changes.
//
// Division by zero is not special-cased. A window with losses but no gains
// yields RSI 0, gains but no losses yields 100, and a flat window (0/0)
// propagates NaN.
func RSISeries(closes []float64, period int) []float64 {
	rsi := make([]float64, len(closes))
	for i := range rsi {
		rsi[i] = math.NaN()
	}
	if period <= 0 || len(closes) <= period {
		return rsi
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	// The first change only exists at index 1, so the first full window of
	// `period` changes ends at index `period`.
	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		gainSum += gains[i]
		lossSum += losses[i]
	}
	for i := period; i < len(closes); i++ {
		if i > period {
			gainSum += gains[i] - gains[i-period]
			lossSum += losses[i] - losses[i-period]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		rs := avgGain / avgLoss
		rsi[i] = 100 - 100/(1+rs)
	}
	return rsi
}

// Closes extracts the close prices from bars, preserving order.
func Closes(bars []models.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// AsFloat coerces a fundamentals value to float64, with 0 for anything
// absent or non-numeric.
func AsFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
