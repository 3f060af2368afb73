package ric

import (
	"math/rand"
	"sync"
	"time"
)

// RandomVariable draws a non-negative duration, the idiomatic replacement
// for the source's ns3::RandomVariableStream attributes (see spec §9). Draw
// must be safe for concurrent use, since LMs may run in a worker pool.
type RandomVariable interface {
	Draw() time.Duration
}

// ConstantVariable always draws the same duration. It is the default for
// every *Rv configuration key in spec §6.
type ConstantVariable struct {
	Value time.Duration
}

func Constant(d time.Duration) ConstantVariable { return ConstantVariable{Value: d} }

func (c ConstantVariable) Draw() time.Duration { return c.Value }

// UniformVariable draws uniformly from [Min, Max). A single instance is
// commonly shared across many goroutines (e.g. one TerminatorConfig field
// used by every LteEnb/LteUe/Wired terminator's registration loop), so
// Draw guards rng with mu rather than relying on *rand.Rand's own
// (nonexistent) concurrency safety.
type UniformVariable struct {
	Min, Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func Uniform(min, max time.Duration) *UniformVariable {
	return &UniformVariable{Min: min, Max: max, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (u *UniformVariable) Draw() time.Duration {
	if u.Max <= u.Min {
		return u.Min
	}
	span := u.Max - u.Min
	u.mu.Lock()
	n := u.rng.Int63n(int64(span))
	u.mu.Unlock()
	return u.Min + time.Duration(n)
}
