package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Rand is the source of randomness used by grid generation, the initial deal
// and reward respawn. Implementations must be deterministic for a given seed.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// RandSource builds a Rand from a seed.
type RandSource func(seed int64) Rand

// NewRand returns a math/rand generator seeded with seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed draws a non-zero seed from crypto/rand.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		return 1
	}
	return seed
}

// turnSeed derives the seed used for events that happen at the end of a given
// turn, so the outcome depends only on the match seed and the turn number.
func turnSeed(seed int64, turn int) int64 {
	return seed ^ (int64(turn)+1)*1000003
}
