package feed

import (
	"math/rand"
	"time"
)

// RandomFeed produces a uniform random walk around a starting price. Useful
// for exercising the full pipeline without market data.
type RandomFeed struct {
	rng     *rand.Rand
	price   float64
	vol     float64
	left    int
	prev    float64
	hasPrev bool
}

// NewRandomFeed walks from startPrice in uniform steps of at most vol price
// units. n limits the tick count; n <= 0 means unlimited. seed 0 picks a
// clock seed, any other value makes the walk reproducible.
func NewRandomFeed(startPrice, vol float64, n int, seed int64) *RandomFeed {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if n <= 0 {
		n = -1
	}
	return &RandomFeed{
		rng:   rand.New(rand.NewSource(seed)),
		price: startPrice,
		vol:   vol,
		left:  n,
	}
}

func (f *RandomFeed) Next() (Tick, bool, error) {
	if f.left == 0 {
		return Tick{}, false, nil
	}
	if f.left > 0 {
		f.left--
	}

	f.price += (f.rng.Float64() - 0.5) * 2 * f.vol

	t := Tick{
		Time:    time.Now().UTC(),
		Price:   f.price,
		Prev:    f.prev,
		HasPrev: f.hasPrev,
	}
	f.prev, f.hasPrev = f.price, true
	return t, true, nil
}

func (f *RandomFeed) Close() error { return nil }
