package risk

import "math"

// Metrics is the ledger's aggregate performance record over closed positions.
type Metrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"` // percent

	TotalPL        float64 `json:"total_pnl"`
	AccountBalance float64 `json:"account_balance"`

	// ProfitFactor is gross winning P/L over gross losing P/L magnitude,
	// +Inf when there is nothing on the losing side.
	ProfitFactor float64 `json:"profit_factor"`

	AverageWin  float64 `json:"average_win"`
	AverageLoss float64 `json:"average_loss"`

	MaxDrawdown float64 `json:"max_drawdown"` // percent
}

// Metrics computes performance over the closed collection. The second return
// is false when no positions have closed, so callers can tell "no trades"
// from "breakeven trades".
func (m *Manager) Metrics() (Metrics, bool) {
	if len(m.closed) == 0 {
		return Metrics{}, false
	}

	var (
		wins, losses        int
		grossWin, grossLoss float64
		total               float64
	)
	for _, p := range m.closed {
		total += p.RealizedPL
		if p.RealizedPL > 0 {
			wins++
			grossWin += p.RealizedPL
		} else {
			losses++
			grossLoss += p.RealizedPL
		}
	}

	out := Metrics{
		TotalTrades:    len(m.closed),
		WinningTrades:  wins,
		LosingTrades:   losses,
		WinRate:        float64(wins) / float64(len(m.closed)) * 100,
		TotalPL:        total,
		AccountBalance: m.balance,
		MaxDrawdown:    m.MaxDrawdown(),
	}

	// A losing side with zero magnitude (no losers, or only breakeven
	// closes) makes the ratio unbounded.
	if grossLoss == 0 {
		out.ProfitFactor = math.Inf(1)
	} else {
		out.ProfitFactor = math.Abs(grossWin) / math.Abs(grossLoss)
	}

	if wins > 0 {
		out.AverageWin = grossWin / float64(wins)
	}
	if losses > 0 {
		out.AverageLoss = grossLoss / float64(losses)
	}
	return out, true
}

// MaxDrawdown walks the equity curve tracking the running peak and returns
// the deepest peak-to-trough decline as a percent of the peak. Fewer than two
// equity points is 0 drawdown.
func (m *Manager) MaxDrawdown() float64 {
	if len(m.equity) < 2 {
		return 0
	}

	peak := m.equity[0]
	maxDD := 0.0
	for _, eq := range m.equity {
		if eq > peak {
			peak = eq
		}
		dd := (peak - eq) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
