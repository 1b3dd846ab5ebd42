package streamvad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmootherPassThrough(t *testing.T) {
	s := newSmoother(0)
	for _, p := range []float32{0.1, 0.9, 0.5, 0} {
		assert.Equal(t, p, s.smooth(p))
	}
}

func TestSmootherConvergesToConstant(t *testing.T) {
	s := newSmoother(0.8)
	s.smooth(0) // prime with a value far from the constant
	var out float32
	for i := 0; i < 60; i++ {
		out = s.smooth(1.0)
	}
	assert.InDelta(t, 1.0, out, 1e-3)
}

func TestSmootherStaysInRange(t *testing.T) {
	s := newSmoother(0.5)
	probs := []float32{0, 1, 0, 1, 0.5, 0.9, 0.1}
	for _, p := range probs {
		out := s.smooth(p)
		assert.GreaterOrEqual(t, out, float32(0))
		assert.LessOrEqual(t, out, float32(1))
	}
}

func TestSmootherReset(t *testing.T) {
	s := newSmoother(0.9)
	s.smooth(1.0)
	s.smooth(1.0)
	s.reset()
	// After reset the first sample primes the average again.
	assert.Equal(t, float32(0.25), s.smooth(0.25))
}
