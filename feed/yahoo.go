package feed

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
)

// YahooFeed polls Yahoo Finance quotes for a symbol (e.g. "EURUSD=X") at a
// fixed interval. The first Next fetches immediately; later calls sleep the
// interval first. Close unblocks a pending Next.
type YahooFeed struct {
	symbol   string
	interval time.Duration
	done     chan struct{}
	started  bool
	prev     float64
	hasPrev  bool
}

// NewYahooFeed polls symbol every interval (minimum one second).
func NewYahooFeed(symbol string, interval time.Duration) *YahooFeed {
	if interval < time.Second {
		interval = time.Second
	}
	return &YahooFeed{
		symbol:   symbol,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (f *YahooFeed) Next() (Tick, bool, error) {
	if f.started {
		select {
		case <-time.After(f.interval):
		case <-f.done:
			return Tick{}, false, nil
		}
	} else {
		select {
		case <-f.done:
			return Tick{}, false, nil
		default:
		}
		f.started = true
	}

	q, err := quote.Get(f.symbol)
	if err != nil {
		return Tick{}, false, fmt.Errorf("feed: quote %s: %w", f.symbol, err)
	}
	if q == nil {
		return Tick{}, false, fmt.Errorf("feed: no quote for %s", f.symbol)
	}

	t := Tick{
		Time:    time.Now().UTC(),
		Price:   q.RegularMarketPrice,
		Prev:    f.prev,
		HasPrev: f.hasPrev,
	}
	f.prev, f.hasPrev = q.RegularMarketPrice, true
	return t, true, nil
}

func (f *YahooFeed) Close() error {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
	return nil
}

// YahooHistory fetches recent one-minute closes for symbol, keeping at most
// the last n. Used to warm indicator windows before a live session.
func YahooHistory(symbol string, n int) ([]float64, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneMin,
	})

	var out []float64
	for iter.Next() {
		f, _ := iter.Bar().Close.Float64()
		out = append(out, f)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("feed: history %s: %w", symbol, err)
	}

	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}
