package strategy

import (
	"testing"
	"time"

	"github.com/rustyeddy/fxbot/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wideStops returns a risk config whose protective exits are far enough away
// that no test price path triggers them.
func wideStops() risk.Config {
	cfg := risk.DefaultConfig()
	cfg.StopLossDistance = 0.5
	cfg.TakeProfitDistance = 1.0
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, riskCfg risk.Config) *Engine {
	t.Helper()
	ledger, err := risk.NewManager(riskCfg)
	require.NoError(t, err)
	e, err := New(cfg, ledger)
	require.NoError(t, err)
	return e
}

func risingPrices(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.1000 + float64(i)*0.0010
	}
	return out
}

func TestNew_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	ledger, err := risk.NewManager(risk.DefaultConfig())
	require.NoError(t, err)

	bad := DefaultConfig()
	bad.FastPeriod = 30 // above slow
	_, err = New(bad, ledger)
	assert.Error(t, err)

	bad = DefaultConfig()
	bad.Variant = "martingale"
	_, err = New(bad, ledger)
	assert.Error(t, err)

	bad = DefaultConfig()
	bad.OnOpposite = "flip"
	_, err = New(bad, ledger)
	assert.Error(t, err)

	_, err = New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestOnPrice_NoEntriesBeforeWarmup(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	e := newTestEngine(t, cfg, wideStops())

	now := time.Now()
	for i, px := range risingPrices(cfg.SlowPeriod - 1) {
		assert.Empty(t, e.OnPrice(px, now), "tick %d", i)
	}
	assert.Equal(t, Flat, e.Stance())
	assert.Empty(t, e.Ledger().OpenPositions())
}

func TestOnPrice_SingleEntryOnTrend(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	e := newTestEngine(t, cfg, wideStops())

	now := time.Now()
	var entries int
	for _, px := range risingPrices(40) {
		for _, sig := range e.OnPrice(px, now) {
			if sig.Action == ActionBuy {
				entries++
			}
		}
		assert.LessOrEqual(t, len(e.Ledger().OpenPositions()), 1)
		now = now.Add(time.Second)
	}

	// "open only when stance differs" suppresses tick-to-tick re-entries
	assert.Equal(t, 1, entries)
	assert.Equal(t, Long, e.Stance())
	require.Len(t, e.Ledger().OpenPositions(), 1)
}

func TestOnPrice_EntrySignalCarriesSnapshot(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	e := newTestEngine(t, cfg, wideStops())

	now := time.Now()
	var entry *Signal
	for _, px := range risingPrices(25) {
		for _, sig := range e.OnPrice(px, now) {
			if sig.Action == ActionBuy {
				s := sig
				entry = &s
			}
		}
	}

	require.NotNil(t, entry)
	assert.True(t, entry.Snapshot.FastEMA.Warm)
	assert.True(t, entry.Snapshot.SlowEMA.Warm)
	assert.Greater(t, entry.Snapshot.FastEMA.Value, entry.Snapshot.SlowEMA.Value)
	assert.Contains(t, entry.Label, "BUY")
	assert.Equal(t, risk.StatusOpen, entry.Position.Status)
	assert.InDelta(t, entry.Price-0.5, entry.Position.StopLoss, 1e-9)
}

func TestOnPrice_TakeProfitEmitsCloseAndGoesFlat(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	e := newTestEngine(t, cfg, risk.DefaultConfig()) // 20/40 pip exits

	now := time.Now()
	var closes []Signal
	for _, px := range risingPrices(40) {
		for _, sig := range e.OnPrice(px, now) {
			if sig.Action == ActionClose {
				closes = append(closes, sig)
			}
		}
	}

	// rising 10 pips per tick: the 40 pip target is hit 4 ticks after entry
	require.NotEmpty(t, closes)
	first := closes[0]
	assert.Equal(t, risk.StatusTakeProfit, first.Position.Status)
	assert.Greater(t, first.Position.RealizedPL, 0.0)
	assert.Contains(t, first.Label, "CLOSED BUY")
	assert.Contains(t, first.Label, "CLOSED_TAKE_PROFIT")
}

func TestOnPrice_ReversePolicyFlipsInOneTick(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	cfg.OnOpposite = PolicyReverse
	e := newTestEngine(t, cfg, wideStops())

	now := time.Now()
	prices := risingPrices(30)
	// trend reversal: march straight back down
	for i := 29; i >= 0; i-- {
		prices = append(prices, 1.1000+float64(i)*0.0010)
	}

	var flipTick []Signal
	for _, px := range prices {
		sigs := e.OnPrice(px, now)
		for _, sig := range sigs {
			if sig.Action == ActionSell {
				flipTick = sigs
			}
		}
	}

	require.NotEmpty(t, flipTick, "downtrend must eventually fire a SELL")
	require.Len(t, flipTick, 2, "reverse closes the long and opens the short in one tick")
	assert.Equal(t, ActionClose, flipTick[0].Action)
	assert.Equal(t, risk.StatusManual, flipTick[0].Position.Status)
	assert.Equal(t, ActionSell, flipTick[1].Action)
	assert.Equal(t, Short, e.Stance())
	assert.Len(t, e.Ledger().OpenPositions(), 1)
}

func TestOnPrice_HoldPolicySkipsOppositeEntry(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	cfg.OnOpposite = PolicyHold
	e := newTestEngine(t, cfg, wideStops())

	now := time.Now()
	prices := risingPrices(30)
	for i := 29; i >= 0; i-- {
		prices = append(prices, 1.1000+float64(i)*0.0010)
	}

	var sells int
	for _, px := range prices {
		for _, sig := range e.OnPrice(px, now) {
			if sig.Action == ActionSell {
				sells++
			}
		}
	}

	// wide stops never close the long, so the short entry is never taken
	assert.Zero(t, sells)
	assert.Equal(t, Long, e.Stance())
	require.Len(t, e.Ledger().OpenPositions(), 1)
	assert.Equal(t, risk.Long, e.Ledger().OpenPositions()[0].Side)
}

func TestSeed_WarmsWindowsWithoutTrading(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	e := newTestEngine(t, cfg, wideStops())

	e.Seed(risingPrices(25))
	assert.Equal(t, 25, e.PriceCount())
	assert.Empty(t, e.Ledger().OpenPositions())

	// first live tick evaluates entries immediately
	sigs := e.OnPrice(1.1260, time.Now())
	require.Len(t, sigs, 1)
	assert.Equal(t, ActionBuy, sigs[0].Action)
}

func TestStats(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Variant = VariantEMACross
	e := newTestEngine(t, cfg, risk.DefaultConfig())

	now := time.Now()
	for _, px := range risingPrices(40) {
		e.OnPrice(px, now)
	}

	st := e.Stats()
	assert.Equal(t, VariantEMACross, st.Variant)
	assert.Equal(t, 40, st.DataPoints)
	assert.Greater(t, st.TotalSignals, 0)
	require.NotNil(t, st.Performance, "take-profit closes must surface metrics")
	assert.Greater(t, st.Performance.TotalTrades, 0)
}
