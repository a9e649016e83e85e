// Package sample picks random elements from candidate pools.
package sample

import (
	"math/rand"
	"time"
)

// Source supplies random indexes. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// New returns a Source seeded with the current time.
func New() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Uniform returns one element of pool chosen with equal probability.
// It reports false for an empty pool.
func Uniform[T any](src Source, pool []T) (T, bool) {
	var zero T
	if len(pool) == 0 {
		return zero, false
	}
	return pool[src.Intn(len(pool))], true
}
