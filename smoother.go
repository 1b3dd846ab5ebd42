package streamvad

// smoother applies an exponential moving average to raw window probabilities
// to damp jitter before thresholding. decay is the weight given to history;
// zero makes smooth a pass-through. A constant input converges back to that
// constant geometrically.
type smoother struct {
	decay  float32
	value  float32
	primed bool
}

func newSmoother(decay float32) *smoother {
	return &smoother{decay: decay}
}

func (s *smoother) smooth(p float32) float32 {
	if s.decay == 0 {
		return p
	}
	if !s.primed {
		s.primed = true
		s.value = p
		return p
	}
	s.value = s.decay*s.value + (1-s.decay)*p
	return s.value
}

func (s *smoother) reset() {
	s.value = 0
	s.primed = false
}
