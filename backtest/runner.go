// Package backtest replays a finite price series through a fresh strategy
// engine and ledger pair, producing an equity curve, a trade tape, and a
// summary report.
package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/risk"
	"github.com/rustyeddy/fxbot/strategy"
)

// TradeEntry is one row of the trade tape: an entry signal as it fired.
type TradeEntry struct {
	Time   time.Time
	Signal string
	Label  string
	Price  float64
}

// Runner drives one backtest. Every Run constructs its own engine and ledger,
// so a single Runner value can execute independent runs back to back.
type Runner struct {
	Strategy strategy.Config
	Risk     risk.Config

	// Journal, when set, receives every signal and closed trade.
	Journal journal.Journal

	// Start and Step define the synthetic clock: tick i is stamped
	// Start + i*Step. Zero values mean "now" and one minute.
	Start time.Time
	Step  time.Duration

	// CloseAtEnd liquidates any position still open at the last price,
	// marking it CLOSED_MANUAL, so the final balance is fully realized.
	CloseAtEnd bool
}

// Run replays prices in order through a new engine. Per tick it hands the
// price to the engine, journals the resulting signals, and appends the
// mark-to-market equity (balance plus unrealized P/L of open positions) to
// the equity curve. The input slice is never mutated.
//
// The returned equity curve starts at the initial balance, so an empty price
// series yields a single-point curve and zero trades.
func (r *Runner) Run(prices []float64) (Report, error) {
	ledger, err := risk.NewManager(r.Risk)
	if err != nil {
		return Report{}, err
	}
	eng, err := strategy.New(r.Strategy, ledger)
	if err != nil {
		return Report{}, err
	}

	jnl := r.Journal
	if jnl == nil {
		jnl = journal.Nop{}
	}

	start := r.Start
	if start.IsZero() {
		start = time.Now().UTC()
	}
	step := r.Step
	if step == 0 {
		step = time.Minute
	}

	equity := make([]float64, 1, len(prices)+1)
	equity[0] = r.Risk.InitialBalance

	var tape []TradeEntry
	now := start

	for i, price := range prices {
		now = start.Add(time.Duration(i) * step)

		for _, sig := range eng.OnPrice(price, now) {
			if err := jnl.RecordSignal(journal.NewSignalRecord(sig)); err != nil {
				return Report{}, fmt.Errorf("backtest: journal signal: %w", err)
			}
			switch sig.Action {
			case strategy.ActionBuy, strategy.ActionSell:
				tape = append(tape, TradeEntry{
					Time:   sig.Time,
					Signal: string(sig.Action),
					Label:  sig.Label,
					Price:  sig.Price,
				})
			case strategy.ActionClose:
				if err := jnl.RecordTrade(journal.NewTradeRecord(sig.Position)); err != nil {
					return Report{}, fmt.Errorf("backtest: journal trade: %w", err)
				}
			}
		}

		equity = append(equity, ledger.Balance()+ledger.UnrealizedPL(price))
	}

	if r.CloseAtEnd && len(prices) > 0 {
		last := prices[len(prices)-1]
		for _, p := range ledger.CloseAll(last, now) {
			if err := jnl.RecordTrade(journal.NewTradeRecord(p)); err != nil {
				return Report{}, fmt.Errorf("backtest: journal trade: %w", err)
			}
		}
		equity = append(equity, ledger.Balance())
	}

	rep := Report{
		InitialBalance: r.Risk.InitialBalance,
		FinalBalance:   ledger.Balance(),
		EquityCurve:    equity,
		Trades:         tape,
	}
	rep.TotalReturn = (rep.FinalBalance - rep.InitialBalance) / rep.InitialBalance * 100

	if m, ok := ledger.Metrics(); ok {
		rep.TotalTrades = m.TotalTrades
		rep.WinningTrades = m.WinningTrades
		rep.LosingTrades = m.LosingTrades
		rep.WinRate = m.WinRate
		rep.ProfitFactor = m.ProfitFactor
		rep.MaxDrawdown = m.MaxDrawdown
	}
	return rep, nil
}
