// Package indicators provides technical analysis indicators computed over a
// close-price series.
//
// Every function is pure and deterministic: the same input slice always yields
// the same output, and the input is never modified. Insufficient data is never
// an error; each indicator documents a sentinel value (0 for averages, 50 for
// bounded oscillators) returned for positions where the window has not filled.
// Callers that must distinguish a sentinel from a genuine reading should use
// the Reading helpers in reading.go.
package indicators

import "math"

// EMA calculates the Exponential Moving Average series for the given period
// using smoothing factor 2/(period+1). The series is seeded from the first
// price (recursive smoothing), not from an initial simple average.
//
// If len(prices) < period the whole output is the 0 sentinel.
func EMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA calculates the Simple Moving Average series for the given period.
// Positions before the window is full are the 0 sentinel, as is the whole
// output when len(prices) < period.
func SMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RSI calculates the Relative Strength Index series over a trailing window of
// period price deltas. Output is bounded in [0, 100] once the window fills.
//
// Positions where the window has not filled are the neutral 50 sentinel, as is
// the whole output when len(prices) < period+1. A window with zero average
// loss saturates at 100 (the formula's natural limit); a flat window (no gains
// and no losses) stays neutral at 50.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = 50
	}
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	for i := period; i < len(prices); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			delta := prices[j] - prices[j-1]
			if delta > 0 {
				gains += delta
			} else {
				losses -= delta
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = 50
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD calculates the Moving Average Convergence Divergence: the MACD line
// (fast EMA minus slow EMA), the signal line (EMA of the MACD line), and the
// histogram (MACD minus signal).
//
// All three series are the 0 sentinel when len(prices) < slow.
func MACD(prices []float64, fast, slow, signal int) (macd, signalLine, histogram []float64) {
	macd = make([]float64, len(prices))
	signalLine = make([]float64, len(prices))
	histogram = make([]float64, len(prices))
	if slow <= 0 || fast <= 0 || signal <= 0 || len(prices) < slow {
		return macd, signalLine, histogram
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)
	for i := range prices {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine = EMA(macd, signal)
	for i := range prices {
		histogram[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, histogram
}

// Stochastic calculates the %K and %D oscillator series. %K compares the
// latest price to the high-low range of the trailing kPeriod window, with
// close prices standing in for true highs and lows. %D is the SMA of %K over
// dPeriod.
//
// Both series are bounded in [0, 100]. A zero high-low range and any position
// before the windows fill yield the neutral 50 sentinel.
func Stochastic(prices []float64, kPeriod, dPeriod int) (percentK, percentD []float64) {
	percentK = make([]float64, len(prices))
	percentD = make([]float64, len(prices))
	for i := range prices {
		percentK[i] = 50
		percentD[i] = 50
	}
	if kPeriod <= 0 || dPeriod <= 0 || len(prices) < kPeriod {
		return percentK, percentD
	}

	for i := kPeriod - 1; i < len(prices); i++ {
		low := prices[i-kPeriod+1]
		high := prices[i-kPeriod+1]
		for j := i - kPeriod + 2; j <= i; j++ {
			low = math.Min(low, prices[j])
			high = math.Max(high, prices[j])
		}
		if high == low {
			percentK[i] = 50
		} else {
			percentK[i] = (prices[i] - low) / (high - low) * 100
		}
	}

	// %D needs dPeriod full %K values on top of the %K warmup.
	for i := kPeriod + dPeriod - 2; i < len(prices); i++ {
		sum := 0.0
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += percentK[j]
		}
		percentD[i] = sum / float64(dPeriod)
	}
	return percentK, percentD
}

// BollingerBands calculates the middle band (SMA over period) and the upper
// and lower bands at k standard deviations around it. All three series are the
// 0 sentinel for positions before the window fills.
func BollingerBands(prices []float64, period int, k float64) (upper, middle, lower []float64) {
	upper = make([]float64, len(prices))
	lower = make([]float64, len(prices))
	middle = SMA(prices, period)
	if period <= 0 || len(prices) < period {
		return upper, middle, lower
	}

	for i := period - 1; i < len(prices); i++ {
		var sq float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - middle[i]
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(period))
		upper[i] = middle[i] + k*sd
		lower[i] = middle[i] - k*sd
	}
	return upper, middle, lower
}
