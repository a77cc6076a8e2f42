// Package random provides the string-seeded generator every world and combat
// roll is drawn from. The same seed always yields the same sequence.
package random

import (
	"errors"
	"hash/fnv"
	randv2 "math/rand/v2"
)

var (
	// ErrEmptyChoice is returned when picking from an empty list.
	ErrEmptyChoice = errors.New("random: pick from empty list")
)

// Rand is a seeded pseudo-random generator (LCG with a SplitMix64 output mix).
type Rand struct {
	state uint64
}

// New creates a generator seeded from an arbitrary string.
func New(seed string) *Rand {
	return &Rand{state: Hash(seed)}
}

// Hash returns the 64-bit FNV-1a hash of a seed string.
func Hash(seed string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return h.Sum64()
}

// Mix folds integer parts into a seed hash and returns a well-mixed value.
func Mix(h uint64, parts ...int64) uint64 {
	for _, p := range parts {
		h ^= uint64(p)
		h *= 0x100000001b3
		h = splitmix(h)
	}
	return splitmix(h)
}

// Unit maps a mixed hash to [0, 1).
func Unit(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}

func splitmix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

const seedAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewSeed returns a fresh 16-character seed for players who do not supply one.
// It is the only non-deterministic entry point in the package.
func NewSeed() string {
	b := make([]byte, 16)
	for i := range b {
		b[i] = seedAlphabet[randv2.IntN(len(seedAlphabet))]
	}
	return string(b)
}

// Uint64 returns a pseudo-random uint64
func (r *Rand) Uint64() uint64 {
	// LCG parameters from Numerical Recipes
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return splitmix(r.state)
}

// Next returns a pseudo-random float64 in [0, 1)
func (r *Rand) Next() float64 {
	return Unit(r.Uint64())
}

// IntN returns a pseudo-random int in [min, max], inclusive at both ends.
func (r *Rand) IntN(min, max int) int {
	if min >= max {
		return min
	}
	return min + int(r.Next()*float64(max-min+1))
}

// Float returns a pseudo-random float64 in [min, max).
func (r *Rand) Float(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Bool returns true with probability p.
func (r *Rand) Bool(p float64) bool {
	return r.Next() < p
}

// Pick returns a uniformly chosen element of list.
func Pick[T any](r *Rand, list []T) (T, error) {
	var zero T
	if len(list) == 0 {
		return zero, ErrEmptyChoice
	}
	return list[r.IntN(0, len(list)-1)], nil
}

// MustPick is Pick for static tables known to be non-empty.
func MustPick[T any](r *Rand, list []T) T {
	v, err := Pick(r, list)
	if err != nil {
		panic(err)
	}
	return v
}

// Shuffle reorders list in place (Fisher-Yates).
func Shuffle[T any](r *Rand, list []T) {
	for i := len(list) - 1; i > 0; i-- {
		j := r.IntN(0, i)
		list[i], list[j] = list[j], list[i]
	}
}
