package strategy

import (
	"fmt"

	"github.com/rustyeddy/fxbot/indicators"
	"github.com/rustyeddy/fxbot/risk"
)

// Stochastic oversold/overbought bands for the confluence variant.
const (
	stochOversold   = 20.0
	stochOverbought = 80.0
)

// Snapshot is the indicator state computed for one tick. Every entry signal
// carries the snapshot that produced it.
type Snapshot struct {
	Price    float64            `json:"price"`
	FastEMA  indicators.Reading `json:"fast_ema"`
	SlowEMA  indicators.Reading `json:"slow_ema"`
	RSI      indicators.Reading `json:"rsi"`
	PercentK indicators.Reading `json:"percent_k"`
	PercentD indicators.Reading `json:"percent_d"`
}

func (s Snapshot) emaBullish() bool { return s.FastEMA.Value > s.SlowEMA.Value }
func (s Snapshot) emaBearish() bool { return s.FastEMA.Value < s.SlowEMA.Value }

// Rule is one entry predicate. Rules are evaluated in slice order; the first
// rule whose predicate holds and whose side differs from the current stance
// fires. Stronger reversal-confirmation rules come before trend-following
// ones.
type Rule struct {
	Name   string // e.g. "STRONG BUY"
	Side   risk.Side
	When   func(Snapshot) bool
	Detail func(Snapshot) string
}

// ruleSet builds the rules and minimum warmup window for the configured
// variant. Config must already be validated.
func ruleSet(cfg Config) (rules []Rule, minWindow int) {
	switch cfg.Variant {
	case VariantEMACross:
		return []Rule{
			{
				Name: "BUY",
				Side: risk.Long,
				When: Snapshot.emaBullish,
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("Fast EMA %.5f > Slow EMA %.5f", s.FastEMA.Value, s.SlowEMA.Value)
				},
			},
			{
				Name: "SELL",
				Side: risk.Short,
				When: Snapshot.emaBearish,
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("Fast EMA %.5f < Slow EMA %.5f", s.FastEMA.Value, s.SlowEMA.Value)
				},
			},
		}, cfg.SlowPeriod

	case VariantRSI:
		return []Rule{
			{
				Name: "BUY",
				Side: risk.Long,
				When: func(s Snapshot) bool { return s.RSI.Value < cfg.Oversold },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("RSI %.2f < %.0f", s.RSI.Value, cfg.Oversold)
				},
			},
			{
				Name: "SELL",
				Side: risk.Short,
				When: func(s Snapshot) bool { return s.RSI.Value > cfg.Overbought },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("RSI %.2f > %.0f", s.RSI.Value, cfg.Overbought)
				},
			},
		}, cfg.RSIPeriod

	case VariantEMAStochastic:
		return []Rule{
			{
				Name: "STRONG BUY",
				Side: risk.Long,
				When: func(s Snapshot) bool { return s.emaBullish() && s.PercentK.Value < stochOversold },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bullish + Stoch Oversold (%.1f)", s.PercentK.Value)
				},
			},
			{
				Name: "STRONG SELL",
				Side: risk.Short,
				When: func(s Snapshot) bool { return s.emaBearish() && s.PercentK.Value > stochOverbought },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bearish + Stoch Overbought (%.1f)", s.PercentK.Value)
				},
			},
			{
				Name: "MODERATE BUY",
				Side: risk.Long,
				When: func(s Snapshot) bool { return s.emaBullish() && s.PercentK.Value > s.PercentD.Value },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bullish + %%K %.1f above %%D %.1f", s.PercentK.Value, s.PercentD.Value)
				},
			},
			{
				Name: "MODERATE SELL",
				Side: risk.Short,
				When: func(s Snapshot) bool { return s.emaBearish() && s.PercentK.Value < s.PercentD.Value },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bearish + %%K %.1f below %%D %.1f", s.PercentK.Value, s.PercentD.Value)
				},
			},
		}, max(cfg.SlowPeriod, cfg.KPeriod+cfg.DPeriod-1)

	default: // VariantEMARSI
		rsiNeutral := func(s Snapshot) bool {
			return s.RSI.Value >= cfg.Oversold && s.RSI.Value <= cfg.Overbought
		}
		return []Rule{
			{
				Name: "STRONG BUY",
				Side: risk.Long,
				When: func(s Snapshot) bool { return s.emaBullish() && s.RSI.Value < cfg.Oversold },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bullish + RSI Oversold (%.1f)", s.RSI.Value)
				},
			},
			{
				Name: "STRONG SELL",
				Side: risk.Short,
				When: func(s Snapshot) bool { return s.emaBearish() && s.RSI.Value > cfg.Overbought },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bearish + RSI Overbought (%.1f)", s.RSI.Value)
				},
			},
			{
				Name: "MODERATE BUY",
				Side: risk.Long,
				When: func(s Snapshot) bool { return s.emaBullish() && rsiNeutral(s) },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bullish + RSI Neutral (%.1f)", s.RSI.Value)
				},
			},
			{
				Name: "MODERATE SELL",
				Side: risk.Short,
				When: func(s Snapshot) bool { return s.emaBearish() && rsiNeutral(s) },
				Detail: func(s Snapshot) string {
					return fmt.Sprintf("EMA Bearish + RSI Neutral (%.1f)", s.RSI.Value)
				},
			},
		}, max(cfg.SlowPeriod, cfg.RSIPeriod)
	}
}
