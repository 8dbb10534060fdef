// Package strategy fuses indicator readings into entry and exit decisions
// over a growing price series, under a single-position-at-a-time discipline.
//
// The engine is single-threaded and synchronous: every OnPrice call runs exit
// checks, indicator recomputation, and at most one entry decision to
// completion before the next price is accepted. Indicators are recomputed
// from scratch over the full accumulated history each tick; O(n) per tick is
// the deliberate simplicity trade-off of this subsystem.
package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/fxbot/indicators"
	"github.com/rustyeddy/fxbot/risk"
)

// Stance is the engine's current directional view.
type Stance int8

const (
	Flat  Stance = 0
	Long  Stance = +1
	Short Stance = -1
)

func (s Stance) String() string {
	switch s {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

func stanceFor(side risk.Side) Stance {
	if side == risk.Short {
		return Short
	}
	return Long
}

// Action classifies a signal for journaling and the trade tape.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionClose Action = "CLOSE"
)

// Signal is one emitted decision event: an entry (BUY/SELL) or a position
// closure. Entries carry the indicator snapshot that produced them; closures
// carry the closed position with its realized P/L and close reason.
type Signal struct {
	Time     time.Time     `json:"time"`
	Action   Action        `json:"action"`
	Label    string        `json:"label"`
	Price    float64       `json:"price"`
	Snapshot Snapshot      `json:"snapshot"`
	Position risk.Position `json:"position"`
}

// Engine is the strategy state machine. While the ledger is capable of
// holding many concurrent positions, the engine opens at most one at a time
// and tracks it by id; that invariant lives here, not in the ledger.
//
// Engine is not safe for concurrent use; run independent Engine/Manager
// pairs for parallel price streams.
type Engine struct {
	cfg    Config
	ledger *risk.Manager

	prices    []float64
	stance    Stance
	openID    string
	rules     []Rule
	minWindow int
	history   []Signal
}

// New builds an engine for the configured variant on top of ledger.
func New(cfg Config, ledger *risk.Manager) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, errors.New("strategy: ledger is required")
	}

	rules, minWindow := ruleSet(cfg)
	return &Engine{
		cfg:       cfg,
		ledger:    ledger,
		rules:     rules,
		minWindow: minWindow,
	}, nil
}

// OnPrice consumes the next price and returns the signals it produced, in
// order: position closures first, then at most one entry.
func (e *Engine) OnPrice(price float64, now time.Time) []Signal {
	e.prices = append(e.prices, price)

	var signals []Signal
	for _, p := range e.ledger.CheckExits(price, now) {
		signals = append(signals, e.closeSignal(p, now))
	}

	if len(e.prices) < e.minWindow {
		e.history = append(e.history, signals...)
		return signals
	}

	snap := e.snapshot(price)
	for _, r := range e.rules {
		if !r.When(snap) {
			continue
		}
		if stanceFor(r.Side) == e.stance {
			// Redundant with the current stance; weaker rules may still
			// fire the other way.
			continue
		}
		signals = append(signals, e.enter(r, snap, now)...)
		break
	}

	e.history = append(e.history, signals...)
	return signals
}

// Seed appends historical prices to the series without evaluating entries,
// so a live session starts with warm indicator windows.
func (e *Engine) Seed(prices []float64) {
	e.prices = append(e.prices, prices...)
}

func (e *Engine) snapshot(price float64) Snapshot {
	s := Snapshot{
		Price:   price,
		FastEMA: indicators.LastEMA(e.prices, e.cfg.FastPeriod),
		SlowEMA: indicators.LastEMA(e.prices, e.cfg.SlowPeriod),
		RSI:     indicators.LastRSI(e.prices, e.cfg.RSIPeriod),
	}
	if e.cfg.Variant == VariantEMAStochastic {
		s.PercentK, s.PercentD = indicators.LastStochastic(e.prices, e.cfg.KPeriod, e.cfg.DPeriod)
	}
	return s
}

// enter opens a position for the fired rule. With an opposite position still
// open, PolicyReverse closes it at market first and PolicyHold gives up the
// entry entirely.
func (e *Engine) enter(r Rule, snap Snapshot, now time.Time) []Signal {
	var signals []Signal

	if e.openID != "" {
		if e.cfg.OnOpposite == PolicyHold {
			return nil
		}
		closed, err := e.ledger.ClosePosition(e.openID, snap.Price, risk.StatusManual, now)
		if err == nil {
			signals = append(signals, e.closeSignal(closed, now))
		}
		// Not-found or already-closed just means the ledger beat us to it.
		e.openID = ""
	}

	pos := e.ledger.OpenPosition(r.Side, snap.Price, now)
	e.openID = pos.ID
	e.stance = stanceFor(r.Side)

	signals = append(signals, Signal{
		Time:     now,
		Action:   Action(r.Side.Signal()),
		Label:    fmt.Sprintf("%s | %s", r.Name, r.Detail(snap)),
		Price:    snap.Price,
		Snapshot: snap,
		Position: pos,
	})
	return signals
}

func (e *Engine) closeSignal(p risk.Position, now time.Time) Signal {
	if p.ID == e.openID {
		e.openID = ""
		e.stance = Flat
	}
	return Signal{
		Time:   now,
		Action: ActionClose,
		Label: fmt.Sprintf("CLOSED %s | PnL: $%.2f (%.2f%%) | %s",
			p.Side.Signal(), p.RealizedPL, p.PLPercent, p.Status),
		Price:    p.ExitPrice,
		Position: p,
	}
}

// Stance returns the current directional stance.
func (e *Engine) Stance() Stance { return e.stance }

// Ledger returns the engine's position ledger.
func (e *Engine) Ledger() *risk.Manager { return e.ledger }

// PriceCount returns how many prices the engine has accumulated.
func (e *Engine) PriceCount() int { return len(e.prices) }

// History returns a copy of every signal emitted so far.
func (e *Engine) History() []Signal {
	out := make([]Signal, len(e.history))
	copy(out, e.history)
	return out
}

// Stats is a point-in-time merge of engine state and ledger performance.
type Stats struct {
	Variant       string        `json:"variant"`
	FastPeriod    int           `json:"fast_period"`
	SlowPeriod    int           `json:"slow_period"`
	RSIPeriod     int           `json:"rsi_period"`
	Stance        string        `json:"current_position"`
	TotalSignals  int           `json:"total_signals"`
	DataPoints    int           `json:"data_points"`
	OpenPositions int           `json:"open_positions"`
	Performance   *risk.Metrics `json:"performance,omitempty"`
}

// Stats snapshots the engine and, when any positions have closed, the
// ledger's performance metrics.
func (e *Engine) Stats() Stats {
	st := Stats{
		Variant:       e.cfg.Variant,
		FastPeriod:    e.cfg.FastPeriod,
		SlowPeriod:    e.cfg.SlowPeriod,
		RSIPeriod:     e.cfg.RSIPeriod,
		Stance:        e.stance.String(),
		TotalSignals:  len(e.history),
		DataPoints:    len(e.prices),
		OpenPositions: len(e.ledger.OpenPositions()),
	}
	if m, ok := e.ledger.Metrics(); ok {
		st.Performance = &m
	}
	return st
}
