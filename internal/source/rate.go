package source

import (
	"context"
	"math"
	"sync"
	"time"
)

// RateCounter turns a cumulative reader into a per-second rate.
//
// The first sample primes the counter and returns 0. A reading lower than
// the previous one (counter reset or wrap) also returns 0 and re-primes.
// A reading whose timestamp has not advanced past the previous one repeats
// the last rate.
type RateCounter struct {
	read func(ctx context.Context) (uint64, time.Time, error)
	now  func() time.Time

	mu     sync.Mutex
	primed bool
	prev   uint64
	prevAt time.Time
	last   float64
}

// NewRateCounter creates a rate counter over read. Each value is stamped
// with the time Sample received it.
func NewRateCounter(read func(ctx context.Context) (uint64, error)) *RateCounter {
	return NewStampedRateCounter(func(ctx context.Context) (uint64, time.Time, error) {
		v, err := read(ctx)
		return v, time.Time{}, err
	})
}

// NewStampedRateCounter creates a rate counter over a reader that reports
// when each value was read. A zero timestamp falls back to the sample time.
func NewStampedRateCounter(read func(ctx context.Context) (uint64, time.Time, error)) *RateCounter {
	return &RateCounter{read: read, now: time.Now}
}

// Sample implements Counter.
func (r *RateCounter) Sample(ctx context.Context) (float64, error) {
	value, at, err := r.read(ctx)
	if err != nil {
		return 0, err
	}
	if at.IsZero() {
		at = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.primed || value < r.prev {
		r.primed = true
		r.prev = value
		r.prevAt = at
		r.last = 0
		return 0, nil
	}

	// Cached read: nothing new to divide.
	if !at.After(r.prevAt) {
		return r.last, nil
	}

	elapsed := at.Sub(r.prevAt).Seconds()

	r.last = float64(value-r.prev) / elapsed
	r.prev = value
	r.prevAt = at
	return r.last, nil
}

// CPUTimes is a cumulative CPU time reading in seconds.
type CPUTimes struct {
	Busy  float64
	Total float64
}

// CPUCounter derives a busy percentage from successive CPU time readings.
// The first sample primes and returns 0; results are clamped to [0, 100].
type CPUCounter struct {
	read func(ctx context.Context) (CPUTimes, error)

	mu     sync.Mutex
	primed bool
	prev   CPUTimes
	last   float64
}

// NewCPUCounter creates a CPU usage counter over read.
func NewCPUCounter(read func(ctx context.Context) (CPUTimes, error)) *CPUCounter {
	return &CPUCounter{read: read}
}

// Sample implements Counter.
func (c *CPUCounter) Sample(ctx context.Context) (float64, error) {
	times, err := c.read(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.primed || times.Total < c.prev.Total {
		c.primed = true
		c.prev = times
		c.last = 0
		return 0, nil
	}

	totalDelta := times.Total - c.prev.Total
	if totalDelta <= 0 {
		return c.last, nil
	}

	busyDelta := times.Busy - c.prev.Busy
	c.prev = times
	c.last = ClampPercent(busyDelta / totalDelta * 100)
	return c.last, nil
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
