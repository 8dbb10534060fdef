package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_RecursiveSeed(t *testing.T) {
	t.Parallel()

	// period 3 => alpha 0.5, seeded from the first price
	got := EMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{1, 1.5, 2.25, 3.125, 4.0625}

	require.Len(t, got, 5)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestEMA_ShortSeriesSentinel(t *testing.T) {
	t.Parallel()

	got := EMA([]float64{1.1, 1.2}, 5)
	assert.Equal(t, []float64{0, 0}, got)

	assert.Empty(t, EMA(nil, 5))
}

func TestSMA(t *testing.T) {
	t.Parallel()

	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{0, 0, 2, 3, 4}

	require.Len(t, got, 5)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestSMA_ShortSeriesSentinel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{0, 0, 0}, SMA([]float64{1, 2, 3}, 4))
}

func TestRSI_ShortSeriesNeutral(t *testing.T) {
	t.Parallel()

	// RSI needs period+1 prices; anything shorter is all-neutral.
	got := RSI([]float64{1.1, 1.2, 1.3}, 3)
	assert.Equal(t, []float64{50, 50, 50}, got)
}

func TestRSI_AllGainsSaturates(t *testing.T) {
	t.Parallel()

	got := RSI([]float64{1, 2, 3, 4, 5, 6}, 3)
	for i := 3; i < len(got); i++ {
		assert.InDelta(t, 100.0, got[i], 1e-12, "index %d", i)
	}
}

func TestRSI_FlatSeriesNeutral(t *testing.T) {
	t.Parallel()

	got := RSI([]float64{5, 5, 5, 5, 5, 5}, 3)
	for i, v := range got {
		assert.InDelta(t, 50.0, v, 1e-12, "index %d", i)
	}
}

func TestRSI_Bounded(t *testing.T) {
	t.Parallel()

	prices := []float64{1.10, 1.12, 1.08, 1.15, 1.11, 1.09, 1.14, 1.13, 1.16, 1.07}
	got := RSI(prices, 4)
	for i, v := range got {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 100.0, "index %d", i)
	}
}

func TestMACD_ShortSeriesZero(t *testing.T) {
	t.Parallel()

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 1.1 + float64(i)*0.001
	}

	macd, signal, hist := MACD(prices, 12, 26, 9)
	for i := range prices {
		assert.Zero(t, macd[i])
		assert.Zero(t, signal[i])
		assert.Zero(t, hist[i])
	}
}

func TestMACD_HistogramIsDifference(t *testing.T) {
	t.Parallel()

	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 1.1 + 0.01*math.Sin(float64(i)/4)
	}

	macd, signal, hist := MACD(prices, 12, 26, 9)
	require.Len(t, hist, 40)
	for i := range prices {
		assert.InDelta(t, macd[i]-signal[i], hist[i], 1e-12, "index %d", i)
	}
}

func TestStochastic_Bounds(t *testing.T) {
	t.Parallel()

	prices := []float64{1.10, 1.12, 1.08, 1.15, 1.11, 1.09, 1.14, 1.13, 1.16, 1.07,
		1.12, 1.18, 1.05, 1.11, 1.09, 1.13, 1.17, 1.06, 1.10, 1.15}
	k, d := Stochastic(prices, 5, 3)
	for i := range prices {
		assert.GreaterOrEqual(t, k[i], 0.0, "k index %d", i)
		assert.LessOrEqual(t, k[i], 100.0, "k index %d", i)
		assert.GreaterOrEqual(t, d[i], 0.0, "d index %d", i)
		assert.LessOrEqual(t, d[i], 100.0, "d index %d", i)
	}
}

func TestStochastic_ZeroRangeNeutral(t *testing.T) {
	t.Parallel()

	k, d := Stochastic([]float64{2, 2, 2, 2, 2, 2}, 3, 2)
	for i := range k {
		assert.InDelta(t, 50.0, k[i], 1e-12)
		assert.InDelta(t, 50.0, d[i], 1e-12)
	}
}

func TestStochastic_RisingSeriesTops(t *testing.T) {
	t.Parallel()

	k, _ := Stochastic([]float64{1, 2, 3, 4, 5, 6, 7}, 3, 2)
	for i := 2; i < len(k); i++ {
		assert.InDelta(t, 100.0, k[i], 1e-12, "index %d", i)
	}
}

func TestBollingerBands_ConstantSeries(t *testing.T) {
	t.Parallel()

	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 5
	}

	upper, middle, lower := BollingerBands(prices, 20, 2)
	for i := 19; i < len(prices); i++ {
		assert.InDelta(t, 5.0, middle[i], 1e-12)
		assert.InDelta(t, 5.0, upper[i], 1e-12)
		assert.InDelta(t, 5.0, lower[i], 1e-12)
	}
	// warmup positions stay at the 0 sentinel
	assert.Zero(t, upper[0])
	assert.Zero(t, middle[18])
}

func TestBollingerBands_Symmetry(t *testing.T) {
	t.Parallel()

	prices := []float64{1, 3, 2, 5, 4, 6, 3, 7, 5, 8}
	upper, middle, lower := BollingerBands(prices, 5, 2)
	for i := 4; i < len(prices); i++ {
		assert.InDelta(t, middle[i]-lower[i], upper[i]-middle[i], 1e-12, "index %d", i)
		assert.GreaterOrEqual(t, upper[i], middle[i], "index %d", i)
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	prices := []float64{1.10, 1.12, 1.08, 1.15, 1.11, 1.09, 1.14, 1.13, 1.16, 1.07}

	first := RSI(prices, 4)
	second := RSI(prices, 4)
	assert.Equal(t, first, second)

	e1 := EMA(prices, 4)
	e2 := EMA(prices, 4)
	assert.Equal(t, e1, e2)

	// inputs must never be modified
	assert.Equal(t, 1.10, prices[0])
	assert.Equal(t, 1.07, prices[9])
}

func TestLastReadings(t *testing.T) {
	t.Parallel()

	short := []float64{1.1, 1.2}

	r := LastEMA(short, 5)
	assert.False(t, r.Warm)
	assert.Zero(t, r.Value)

	r = LastRSI(short, 5)
	assert.False(t, r.Warm)
	assert.InDelta(t, 50.0, r.Value, 1e-12)

	long := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	r = LastEMA(long, 3)
	assert.True(t, r.Warm)
	assert.Greater(t, r.Value, 0.0)

	r = LastRSI(long, 3)
	assert.True(t, r.Warm)
	assert.InDelta(t, 100.0, r.Value, 1e-12)

	k, d := LastStochastic(long, 3, 2)
	assert.True(t, k.Warm)
	assert.True(t, d.Warm)
	assert.InDelta(t, 100.0, k.Value, 1e-12)
	assert.InDelta(t, 100.0, d.Value, 1e-12)
}
