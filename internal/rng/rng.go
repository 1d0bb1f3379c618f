// Package rng provides the deterministic string-seeded random source that
// underlies every stochastic decision in the simulation.
//
// Each decision point constructs its own Rand from a composite key such as
// "{seed}:week:{w}:day:{d}:disruption-effect". Because streams are addressed
// by key instead of shared, adding or removing a draw at one call site never
// perturbs the outcome of another.
package rng

import "strings"

const defaultKey = "lowborn-default-seed"

// Rand is a small deterministic PRNG (FNV-1a seeded mulberry32 stream).
// It is not safe for concurrent use; callers derive one per decision point.
type Rand struct {
	state uint32
}

// New returns a Rand keyed by an arbitrary string. A blank key falls back to
// a fixed default so a Rand is always usable.
func New(key string) *Rand {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultKey
	}
	state := hashKey(key)
	if state == 0 {
		state = 1
	}
	return &Rand{state: state}
}

// hashKey is 32-bit FNV-1a over the raw bytes of the key.
func hashKey(key string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= 16777619
	}
	return hash
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state += 0x6d2b79f5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}

// IntBetween returns an integer in [min, max], inclusive on both ends.
// Reversed bounds are swapped rather than rejected.
func (r *Rand) IntBetween(min, max int) int {
	low, high := min, max
	if low > high {
		low, high = high, low
	}
	return int(r.Float64()*float64(high-low+1)) + low
}

// Pick returns a uniformly chosen element. It panics on an empty slice, the
// same contract math/rand.Intn applies to a non-positive bound.
func Pick[T any](r *Rand, values []T) T {
	if len(values) == 0 {
		panic("rng: Pick requires at least one value")
	}
	return values[r.IntBetween(0, len(values)-1)]
}

// Weighted pairs a candidate value with a non-negative selection weight.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedPick draws a threshold in [0, totalWeight) and walks the entries
// subtracting each weight until the threshold is consumed. Negative weights
// count as zero; a zero-weight entry is never selected while any positive
// weight remains. Panics when the entries are empty or all weights are zero.
func WeightedPick[T any](r *Rand, entries []Weighted[T]) T {
	if len(entries) == 0 {
		panic("rng: WeightedPick requires at least one entry")
	}
	total := 0.0
	for _, entry := range entries {
		if entry.Weight > 0 {
			total += entry.Weight
		}
	}
	if total <= 0 {
		panic("rng: WeightedPick requires a positive total weight")
	}
	threshold := r.Float64() * total
	for _, entry := range entries {
		weight := entry.Weight
		if weight < 0 {
			weight = 0
		}
		threshold -= weight
		if threshold <= 0 {
			return entry.Value
		}
	}
	return entries[len(entries)-1].Value
}
