// Package journal persists flat records of strategy signals and closed
// trades. The core produces records; where they land (CSV files or a SQLite
// database) is the journal implementation's business.
package journal

import (
	"time"

	"github.com/rustyeddy/fxbot/risk"
	"github.com/rustyeddy/fxbot/strategy"
)

// SignalRecord is one entry/exit decision event with the indicator values
// that produced it.
type SignalRecord struct {
	Time       time.Time
	Signal     string // e.g. "BUY", "SELL", "CLOSE"
	Label      string
	Price      float64
	FastEMA    float64
	SlowEMA    float64
	RSI        float64
	StopLoss   float64
	TakeProfit float64
}

// TradeRecord is one closed position.
type TradeRecord struct {
	TradeID    string
	Signal     string // entry side, "BUY" or "SELL"
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Units      float64
	RealizedPL float64
	PLPercent  float64
	Status     string
}

// Journal receives records after the fact; implementations decide durability.
type Journal interface {
	RecordSignal(SignalRecord) error
	RecordTrade(TradeRecord) error
	Close() error
}

// NewSignalRecord flattens a strategy signal for storage.
func NewSignalRecord(sig strategy.Signal) SignalRecord {
	return SignalRecord{
		Time:       sig.Time,
		Signal:     string(sig.Action),
		Label:      sig.Label,
		Price:      sig.Price,
		FastEMA:    sig.Snapshot.FastEMA.Value,
		SlowEMA:    sig.Snapshot.SlowEMA.Value,
		RSI:        sig.Snapshot.RSI.Value,
		StopLoss:   sig.Position.StopLoss,
		TakeProfit: sig.Position.TakeProfit,
	}
}

// NewTradeRecord flattens a closed position for storage.
func NewTradeRecord(p risk.Position) TradeRecord {
	return TradeRecord{
		TradeID:    p.ID,
		Signal:     p.Side.Signal(),
		EntryTime:  p.EntryTime,
		ExitTime:   p.ExitTime,
		EntryPrice: p.EntryPrice,
		ExitPrice:  p.ExitPrice,
		Units:      p.Units,
		RealizedPL: p.RealizedPL,
		PLPercent:  p.PLPercent,
		Status:     string(p.Status),
	}
}

// Nop discards every record. Useful for backtests that only want the report.
type Nop struct{}

func (Nop) RecordSignal(SignalRecord) error { return nil }
func (Nop) RecordTrade(TradeRecord) error   { return nil }
func (Nop) Close() error                    { return nil }
