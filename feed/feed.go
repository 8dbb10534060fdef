// Package feed supplies price ticks to the trading core. Implementations are
// either finite (CSV replay) or conceptually infinite (random walk, live
// quote polling); the core just consumes ticks in order.
package feed

import "time"

// Tick is one price observation. Prev carries the previous observation when
// one exists, since some callers want the pair.
type Tick struct {
	Time    time.Time
	Price   float64
	Prev    float64
	HasPrev bool
}

// Feed yields ticks one at a time. Next returns ok=false with a nil error at
// the end of the stream. Finite feeds must be deterministic for a given
// source.
type Feed interface {
	Next() (t Tick, ok bool, err error)
	Close() error
}
