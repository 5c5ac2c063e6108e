package datagen

import (
	"math"
	"math/rand"
	"time"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/scenario"
)

// RNG is the single seeded pseudo-random stream for a generation run.
// Every sampling primitive consumes the shared stream, so results are
// reproducible and order-sensitive: the same seed and the same call
// sequence yield the same values. It is not safe for concurrent use,
// and a run never needs it to be.
type RNG struct {
	seed int64
	src  *rand.Rand
}

// NewRNG builds a stream from an explicit seed.
func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRNG builds a stream seeded from the wall clock, for runs
// where the scenario declares no seed.
func NewTimeSeededRNG() *RNG {
	return NewRNG(time.Now().UnixNano())
}

// Seed returns the seed the stream was built from.
func (r *RNG) Seed() int64 { return r.seed }

// Float64 draws a uniform value in [0,1).
func (r *RNG) Float64() float64 { return r.src.Float64() }

// IntBetween draws a uniform integer in the inclusive range [min,max].
func (r *RNG) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + int(math.Floor(r.src.Float64()*float64(max-min+1)))
}

// FloatBetween draws a uniform float in [min,max).
func (r *RNG) FloatBetween(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.src.Float64()*(max-min)
}

// Bernoulli draws true with probability p.
func (r *RNG) Bernoulli(p float64) bool {
	return r.src.Float64() < p
}

// Pick draws a uniform element. An empty input is a logic error.
func (r *RNG) Pick(items []any, context string) (any, error) {
	if len(items) == 0 {
		return nil, &EmptyPickSourceError{Context: context}
	}
	return items[r.IntBetween(0, len(items)-1)], nil
}

// PickString draws a uniform element from a string list.
func (r *RNG) PickString(items []string, context string) (string, error) {
	if len(items) == 0 {
		return "", &EmptyPickSourceError{Context: context}
	}
	return items[r.IntBetween(0, len(items)-1)], nil
}

// WeightedPick draws from a distribution by cumulative subtraction
// against a single draw scaled by the total weight. Boundary rule: the
// remaining mass test is strict (rem < 0), so a draw landing exactly on
// a cumulative boundary falls through to the next positive-weight
// entry. The total weight must be positive.
func (r *RNG) WeightedPick(dist scenario.Distribution) (string, bool) {
	total := dist.TotalWeight()
	if total <= 0 {
		return "", false
	}
	rem := r.src.Float64() * total
	last := ""
	for i, w := range dist.Weights {
		if w <= 0 {
			continue
		}
		last = dist.Values[i]
		rem -= w
		if rem < 0 {
			return dist.Values[i], true
		}
	}
	// Rounding can leave a sliver of mass past the final entry.
	return last, true
}

// Shuffle permutes items in place (Fisher-Yates).
func (r *RNG) Shuffle(items []any) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntBetween(0, i)
		items[i], items[j] = items[j], items[i]
	}
}

// Sample draws n distinct elements without replacement, in draw order.
// Requests larger than the pool are capped by the caller.
func (r *RNG) Sample(items []any, n int) []any {
	if n > len(items) {
		n = len(items)
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		j := r.IntBetween(i, len(idx)-1)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, items[idx[i]])
	}
	return out
}
