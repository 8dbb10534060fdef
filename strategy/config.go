package strategy

import "fmt"

// OppositePolicy decides what the engine does when an entry rule fires
// against an already-open position in the other direction.
type OppositePolicy string

const (
	// PolicyReverse closes the open position at market (CLOSED_MANUAL) and
	// opens the new one in the same tick.
	PolicyReverse OppositePolicy = "reverse"

	// PolicyHold skips the new entry; the open position stays until the
	// ledger's exit check closes it.
	PolicyHold OppositePolicy = "hold"
)

// Variant names, selectable by config.
const (
	VariantEMACross      = "ema-cross"
	VariantRSI           = "rsi"
	VariantEMARSI        = "ema-rsi"
	VariantEMAStochastic = "ema-stochastic"
)

// Config selects a rule set and its indicator parameters. Variants share one
// engine skeleton; they differ only in which predicates run and which
// indicator windows must fill before entries are evaluated.
type Config struct {
	Variant string `json:"variant" yaml:"variant"`

	FastPeriod int `json:"fast_period" yaml:"fast_period"`
	SlowPeriod int `json:"slow_period" yaml:"slow_period"`

	RSIPeriod  int     `json:"rsi_period" yaml:"rsi_period"`
	Overbought float64 `json:"overbought" yaml:"overbought"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`

	KPeriod int `json:"k_period" yaml:"k_period"`
	DPeriod int `json:"d_period" yaml:"d_period"`

	OnOpposite OppositePolicy `json:"on_opposite" yaml:"on_opposite"`
}

// DefaultConfig returns the EMA 13/20 + RSI 14 confluence setup.
func DefaultConfig() Config {
	return Config{
		Variant:    VariantEMARSI,
		FastPeriod: 13,
		SlowPeriod: 20,
		RSIPeriod:  14,
		Overbought: 70,
		Oversold:   30,
		KPeriod:    14,
		DPeriod:    3,
		OnOpposite: PolicyReverse,
	}
}

// Validate rejects configurations that would make the engine misbehave
// silently: inverted EMA windows, non-positive periods, crossed RSI bands.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantEMACross, VariantRSI, VariantEMARSI, VariantEMAStochastic:
	default:
		return fmt.Errorf("strategy: unknown variant %q", c.Variant)
	}
	if c.FastPeriod <= 0 || c.SlowPeriod <= 0 {
		return fmt.Errorf("strategy: EMA periods must be positive, got fast=%d slow=%d", c.FastPeriod, c.SlowPeriod)
	}
	if c.FastPeriod >= c.SlowPeriod {
		return fmt.Errorf("strategy: fast_period %d must be below slow_period %d", c.FastPeriod, c.SlowPeriod)
	}
	if c.RSIPeriod <= 0 {
		return fmt.Errorf("strategy: rsi_period must be positive, got %d", c.RSIPeriod)
	}
	if c.Oversold <= 0 || c.Overbought >= 100 || c.Oversold >= c.Overbought {
		return fmt.Errorf("strategy: RSI bands must satisfy 0 < oversold < overbought < 100, got %v/%v",
			c.Oversold, c.Overbought)
	}
	if c.KPeriod <= 0 || c.DPeriod <= 0 {
		return fmt.Errorf("strategy: stochastic periods must be positive, got k=%d d=%d", c.KPeriod, c.DPeriod)
	}
	switch c.OnOpposite {
	case PolicyReverse, PolicyHold:
	default:
		return fmt.Errorf("strategy: on_opposite must be %q or %q, got %q", PolicyReverse, PolicyHold, c.OnOpposite)
	}
	return nil
}
