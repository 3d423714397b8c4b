package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandSource feeds the weather and customer draws.
// NextFloat returns a value in [0, 1).
type RandSource interface {
	NextFloat() float64
}

// RandFunc adapts a plain function to RandSource.
type RandFunc func() float64

func (f RandFunc) NextFloat() float64 {
	return f()
}

type seededRand struct {
	r *rand.Rand
}

// NewSeededRand returns a reproducible source for the given seed.
func NewSeededRand(seed uint64) RandSource {
	return &seededRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRand) NextFloat() float64 {
	return s.r.Float64()
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// intn maps a draw onto [0, n).
func intn(src RandSource, n int) int {
	v := int(src.NextFloat() * float64(n))
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
