// Package risk owns position lifecycle, sizing, protective exits, and the
// performance ledger. The Manager tracks open and closed positions, the
// account balance, and the post-close equity curve.
//
// The Manager never raises for ordinary adverse conditions: insufficient data,
// all-losing runs, and degenerate ratios all resolve to documented sentinels
// (zero, an absent metrics record, or +Inf) so a monitoring loop is never
// halted by accounting. Only misconfiguration is rejected, at construction.
package risk

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/fxbot/internal/id"
)

// PipScale converts raw price-unit P/L into quote-currency P/L. One price
// unit is worth 10_000 pips for a standard four-decimal FX quote, and the
// ledger accounts in that currency throughout.
const PipScale = 10000.0

// maxBalanceFraction caps position size at this fraction of the account.
const maxBalanceFraction = 0.10

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrPositionClosed   = errors.New("position already closed")
)

// Config controls sizing and protective-exit placement.
type Config struct {
	// RiskPerTrade is the fraction of the balance risked per position.
	RiskPerTrade float64 `json:"risk_per_trade" yaml:"risk_per_trade"`

	// StopLossDistance and TakeProfitDistance are absolute price-unit
	// distances from the entry price, not percentages.
	StopLossDistance   float64 `json:"stop_loss_distance" yaml:"stop_loss_distance"`
	TakeProfitDistance float64 `json:"take_profit_distance" yaml:"take_profit_distance"`

	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
}

// DefaultConfig returns the standard 2% risk, 20/40 pip EUR/USD setup.
func DefaultConfig() Config {
	return Config{
		RiskPerTrade:       0.02,
		StopLossDistance:   0.0020,
		TakeProfitDistance: 0.0040,
		InitialBalance:     10000,
	}
}

// Validate rejects configurations that would silently produce nonsensical
// position sizes or exit levels.
func (c Config) Validate() error {
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return fmt.Errorf("risk: risk_per_trade must be in (0, 1], got %v", c.RiskPerTrade)
	}
	if c.StopLossDistance <= 0 {
		return fmt.Errorf("risk: stop_loss_distance must be positive, got %v", c.StopLossDistance)
	}
	if c.TakeProfitDistance <= 0 {
		return fmt.Errorf("risk: take_profit_distance must be positive, got %v", c.TakeProfitDistance)
	}
	if c.InitialBalance <= 0 {
		return fmt.Errorf("risk: initial_balance must be positive, got %v", c.InitialBalance)
	}
	return nil
}

// Manager is the position ledger. It is not safe for concurrent use; each
// price stream gets its own Manager.
type Manager struct {
	cfg     Config
	balance float64
	open    []Position // insertion order
	closed  []Position // close order
	equity  []float64  // post-close balances, close order
}

// NewManager validates cfg and returns a ledger seeded with the initial
// balance.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:     cfg,
		balance: cfg.InitialBalance,
	}, nil
}

// Config returns the ledger's configuration.
func (m *Manager) Config() Config { return m.cfg }

// Balance returns the current account balance. Balance changes only when a
// position closes.
func (m *Manager) Balance() float64 { return m.balance }

// SizePosition computes the quantity for a new position: the configured risk
// fraction of the balance divided by the pip-scaled stop distance, capped at
// 10% of the balance. It never mutates ledger state.
func (m *Manager) SizePosition(entryPrice float64) float64 {
	_ = entryPrice // sizing is stop-distance based; entry kept for the interface
	riskAmount := m.balance * m.cfg.RiskPerTrade
	units := riskAmount / (m.cfg.StopLossDistance * PipScale)
	return math.Min(units, m.balance*maxBalanceFraction)
}

// OpenPosition creates a new OPEN position at price with side-dependent stop
// and target levels, appends it to the open collection, and returns it. The
// balance is untouched until the position closes.
func (m *Manager) OpenPosition(side Side, price float64, now time.Time) Position {
	units := m.SizePosition(price)

	var stop, take float64
	if side == Long {
		stop = price - m.cfg.StopLossDistance
		take = price + m.cfg.TakeProfitDistance
	} else {
		stop = price + m.cfg.StopLossDistance
		take = price - m.cfg.TakeProfitDistance
	}

	p := Position{
		ID:         id.New(),
		Side:       side,
		EntryPrice: price,
		EntryTime:  now,
		Units:      units,
		StopLoss:   stop,
		TakeProfit: take,
		Status:     StatusOpen,
	}
	m.open = append(m.open, p)
	return p
}

// CheckExits evaluates every open position against price, stop-loss first and
// take-profit second. If a gap moves price past both levels the stop wins.
// Positions that trigger are closed and returned in open-collection order;
// positions that remain open are untouched.
func (m *Manager) CheckExits(price float64, now time.Time) []Position {
	var closed []Position
	remaining := m.open[:0]

	for _, p := range m.open {
		switch {
		case p.hitStopLoss(price):
			closed = append(closed, m.settle(p, price, StatusStopLoss, now))
		case p.hitTakeProfit(price):
			closed = append(closed, m.settle(p, price, StatusTakeProfit, now))
		default:
			remaining = append(remaining, p)
		}
	}
	m.open = remaining
	return closed
}

// ClosePosition closes the open position with the given id at exitPrice,
// recording status as the close reason.
func (m *Manager) ClosePosition(positionID string, exitPrice float64, status Status, now time.Time) (Position, error) {
	for i, p := range m.open {
		if p.ID != positionID {
			continue
		}
		m.open = append(m.open[:i], m.open[i+1:]...)
		return m.settle(p, exitPrice, status, now), nil
	}
	for _, p := range m.closed {
		if p.ID == positionID {
			return Position{}, fmt.Errorf("close %s: %w", positionID, ErrPositionClosed)
		}
	}
	return Position{}, fmt.Errorf("close %s: %w", positionID, ErrPositionNotFound)
}

// CloseAll manually closes every open position at price, in open-collection
// order, and returns the closed positions.
func (m *Manager) CloseAll(price float64, now time.Time) []Position {
	var closed []Position
	for _, p := range m.open {
		closed = append(closed, m.settle(p, price, StatusManual, now))
	}
	m.open = m.open[:0]
	return closed
}

// settle produces the terminal value of p, applies realized P/L to the
// balance, and appends the post-close balance to the equity curve.
func (m *Manager) settle(p Position, exitPrice float64, status Status, now time.Time) Position {
	pl := (exitPrice - p.EntryPrice) * p.Units * PipScale
	if p.Side == Short {
		pl = -pl
	}

	p.ExitPrice = exitPrice
	p.ExitTime = now
	p.RealizedPL = pl
	p.PLPercent = pl / (p.EntryPrice * p.Units) * 100
	p.Status = status

	m.balance += pl
	m.equity = append(m.equity, m.balance)
	m.closed = append(m.closed, p)
	return p
}

// UnrealizedPL marks every open position to market at price and returns the
// aggregate unrealized P/L.
func (m *Manager) UnrealizedPL(price float64) float64 {
	var total float64
	for _, p := range m.open {
		total += p.UnrealizedPL(price)
	}
	return total
}

// OpenPositions returns a copy of the open collection in insertion order.
func (m *Manager) OpenPositions() []Position {
	out := make([]Position, len(m.open))
	copy(out, m.open)
	return out
}

// ClosedPositions returns a copy of the closed collection in close order.
func (m *Manager) ClosedPositions() []Position {
	out := make([]Position, len(m.closed))
	copy(out, m.closed)
	return out
}

// EquityCurve returns a copy of the post-close balance sequence.
func (m *Manager) EquityCurve() []float64 {
	out := make([]float64, len(m.equity))
	copy(out, m.equity)
	return out
}
