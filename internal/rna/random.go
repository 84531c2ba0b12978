package rna

import (
	"math/rand"
	"time"
)

// Source is the random stream the engine draws from. Every stochastic
// decision (replication, degradation, mutation, culling, movement and
// sequence generation) goes through it so tests can script the draws.
//
// *rand.Rand satisfies Source.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// NewSource returns a math/rand backed Source. A zero seed uses the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
