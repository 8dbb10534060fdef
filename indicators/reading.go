package indicators

// Reading is the latest value of an indicator together with whether the
// indicator's window had filled when it was computed. Value carries the usual
// sentinel (0 or 50) while Warm is false, so a Reading prints and compares the
// same as the raw series, but downstream consumers can tell a genuine reading
// from a warmup placeholder.
type Reading struct {
	Value float64
	Warm  bool
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// LastEMA returns the latest EMA value for the period.
func LastEMA(prices []float64, period int) Reading {
	return Reading{
		Value: last(EMA(prices, period)),
		Warm:  period > 0 && len(prices) >= period,
	}
}

// LastSMA returns the latest SMA value for the period.
func LastSMA(prices []float64, period int) Reading {
	return Reading{
		Value: last(SMA(prices, period)),
		Warm:  period > 0 && len(prices) >= period,
	}
}

// LastRSI returns the latest RSI value for the period. RSI needs period+1
// prices before its first genuine value.
func LastRSI(prices []float64, period int) Reading {
	r := Reading{Warm: period > 0 && len(prices) >= period+1}
	s := RSI(prices, period)
	if len(s) == 0 {
		r.Value = 50
		return r
	}
	r.Value = s[len(s)-1]
	return r
}

// LastStochastic returns the latest %K and %D values.
func LastStochastic(prices []float64, kPeriod, dPeriod int) (percentK, percentD Reading) {
	k, d := Stochastic(prices, kPeriod, dPeriod)
	percentK = Reading{Warm: kPeriod > 0 && len(prices) >= kPeriod}
	percentD = Reading{Warm: kPeriod > 0 && dPeriod > 0 && len(prices) >= kPeriod+dPeriod-1}
	if len(k) == 0 {
		percentK.Value, percentD.Value = 50, 50
		return percentK, percentD
	}
	percentK.Value = k[len(k)-1]
	percentD.Value = d[len(d)-1]
	return percentK, percentD
}
