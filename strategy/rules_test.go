package strategy

import (
	"testing"

	"github.com/rustyeddy/fxbot/indicators"
	"github.com/rustyeddy/fxbot/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(fast, slow, rsi float64) Snapshot {
	return Snapshot{
		Price:   1.1,
		FastEMA: indicators.Reading{Value: fast, Warm: true},
		SlowEMA: indicators.Reading{Value: slow, Warm: true},
		RSI:     indicators.Reading{Value: rsi, Warm: true},
	}
}

func firstMatch(rules []Rule, s Snapshot) (Rule, bool) {
	for _, r := range rules {
		if r.When(s) {
			return r, true
		}
	}
	return Rule{}, false
}

func TestEMARSIRules_PriorityOrder(t *testing.T) {
	t.Parallel()

	rules, minWindow := ruleSet(DefaultConfig())
	require.Len(t, rules, 4)
	assert.Equal(t, 20, minWindow) // max(slow 20, rsi 14)

	// reversal confirmation outranks trend following
	r, ok := firstMatch(rules, snap(1.2, 1.1, 25))
	require.True(t, ok)
	assert.Equal(t, "STRONG BUY", r.Name)
	assert.Equal(t, risk.Long, r.Side)

	r, ok = firstMatch(rules, snap(1.1, 1.2, 75))
	require.True(t, ok)
	assert.Equal(t, "STRONG SELL", r.Name)
	assert.Equal(t, risk.Short, r.Side)

	r, ok = firstMatch(rules, snap(1.2, 1.1, 50))
	require.True(t, ok)
	assert.Equal(t, "MODERATE BUY", r.Name)

	r, ok = firstMatch(rules, snap(1.1, 1.2, 50))
	require.True(t, ok)
	assert.Equal(t, "MODERATE SELL", r.Name)
}

func TestEMARSIRules_NoFireOnConflict(t *testing.T) {
	t.Parallel()

	rules, _ := ruleSet(DefaultConfig())

	// bullish EMA but overbought RSI: neither reversal nor neutral trend
	_, ok := firstMatch(rules, snap(1.2, 1.1, 85))
	assert.False(t, ok)

	// bearish EMA but oversold RSI
	_, ok = firstMatch(rules, snap(1.1, 1.2, 15))
	assert.False(t, ok)
}

func TestEMACrossRules(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	rules, minWindow := ruleSet(cfg)
	require.Len(t, rules, 2)
	assert.Equal(t, cfg.SlowPeriod, minWindow)

	r, ok := firstMatch(rules, snap(1.2, 1.1, 50))
	require.True(t, ok)
	assert.Equal(t, risk.Long, r.Side)

	r, ok = firstMatch(rules, snap(1.1, 1.2, 50))
	require.True(t, ok)
	assert.Equal(t, risk.Short, r.Side)

	// equal EMAs: no cross, no signal
	_, ok = firstMatch(rules, snap(1.1, 1.1, 50))
	assert.False(t, ok)
}

func TestRSIRules(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantRSI
	rules, minWindow := ruleSet(cfg)
	require.Len(t, rules, 2)
	assert.Equal(t, cfg.RSIPeriod, minWindow)

	r, ok := firstMatch(rules, snap(1.1, 1.2, 20))
	require.True(t, ok)
	assert.Equal(t, risk.Long, r.Side, "oversold buys regardless of trend")

	r, ok = firstMatch(rules, snap(1.2, 1.1, 80))
	require.True(t, ok)
	assert.Equal(t, risk.Short, r.Side)

	_, ok = firstMatch(rules, snap(1.2, 1.1, 50))
	assert.False(t, ok)
}

func TestEMAStochasticRules(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMAStochastic
	rules, minWindow := ruleSet(cfg)
	require.Len(t, rules, 4)
	assert.Equal(t, 20, minWindow) // max(slow 20, k+d-1 = 16)

	s := snap(1.2, 1.1, 50)
	s.PercentK = indicators.Reading{Value: 10, Warm: true}
	s.PercentD = indicators.Reading{Value: 15, Warm: true}
	r, ok := firstMatch(rules, s)
	require.True(t, ok)
	assert.Equal(t, "STRONG BUY", r.Name)

	s.PercentK = indicators.Reading{Value: 60, Warm: true}
	s.PercentD = indicators.Reading{Value: 40, Warm: true}
	r, ok = firstMatch(rules, s)
	require.True(t, ok)
	assert.Equal(t, "MODERATE BUY", r.Name)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"ema_cross", func(c *Config) { c.Variant = VariantEMACross }, true},
		{"hold_policy", func(c *Config) { c.OnOpposite = PolicyHold }, true},
		{"unknown_variant", func(c *Config) { c.Variant = "grid" }, false},
		{"fast_not_below_slow", func(c *Config) { c.FastPeriod = 20 }, false},
		{"zero_fast", func(c *Config) { c.FastPeriod = 0 }, false},
		{"zero_rsi", func(c *Config) { c.RSIPeriod = 0 }, false},
		{"crossed_bands", func(c *Config) { c.Oversold = 80 }, false},
		{"band_out_of_range", func(c *Config) { c.Overbought = 120 }, false},
		{"zero_stoch", func(c *Config) { c.KPeriod = 0 }, false},
		{"bad_policy", func(c *Config) { c.OnOpposite = "wait" }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
