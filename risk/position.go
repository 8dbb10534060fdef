package risk

import "time"

// Side is the direction of a position.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "SHORT"
	}
	return "LONG"
}

// Signal returns the order signal word for the side ("BUY" or "SELL"), which
// is what the journal and trade tape record.
func (s Side) Signal() string {
	if s == Short {
		return "SELL"
	}
	return "BUY"
}

// Status is the lifecycle state of a position. A position is created OPEN and
// transitions exactly once to one of the CLOSED_* states; the closed status
// doubles as the close reason.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusStopLoss   Status = "CLOSED_STOP_LOSS"
	StatusTakeProfit Status = "CLOSED_TAKE_PROFIT"
	StatusManual     Status = "CLOSED_MANUAL"
)

// Position is one directional exposure. It is a value type: the Manager never
// hands out pointers, and closing a position replaces the open value with a
// new one carrying the exit fields rather than mutating it in place.
type Position struct {
	ID         string
	Side       Side
	EntryPrice float64
	EntryTime  time.Time
	Units      float64
	StopLoss   float64
	TakeProfit float64

	// Exit fields, zero while the position is open.
	ExitPrice  float64
	ExitTime   time.Time
	RealizedPL float64
	PLPercent  float64

	Status Status
}

// Open reports whether the position has not yet closed.
func (p Position) Open() bool { return p.Status == StatusOpen }

// UnrealizedPL marks the position to market at the given price using the same
// pip-scaled formula ClosePosition uses for realized P/L.
func (p Position) UnrealizedPL(price float64) float64 {
	pl := (price - p.EntryPrice) * p.Units * PipScale
	if p.Side == Short {
		pl = -pl
	}
	return pl
}

// hitStopLoss reports whether price has reached the protective stop.
func (p Position) hitStopLoss(price float64) bool {
	if p.Side == Long {
		return price <= p.StopLoss
	}
	return price >= p.StopLoss
}

// hitTakeProfit reports whether price has reached the profit target.
func (p Position) hitTakeProfit(price float64) bool {
	if p.Side == Long {
		return price >= p.TakeProfit
	}
	return price <= p.TakeProfit
}
