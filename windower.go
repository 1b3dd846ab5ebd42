package streamvad

// windower accumulates arbitrarily sized chunks into exact, non-overlapping
// inference windows. Samples are never dropped: a trailing partial window
// stays buffered for the next push, so the carry buffer is always shorter
// than one window after any call.
type windower struct {
	size    int
	carry   []float32
	emitted int64 // absolute end offset of the last yielded window
}

func newWindower(size int) *windower {
	return &windower{size: size, carry: make([]float32, 0, size)}
}

// push appends samples and yields each completed window, freshly allocated,
// together with its absolute end sample offset.
func (w *windower) push(samples []float32, fn func(win []float32, end int64)) {
	w.carry = append(w.carry, samples...)
	for len(w.carry) >= w.size {
		win := make([]float32, w.size)
		copy(win, w.carry[:w.size])
		n := copy(w.carry, w.carry[w.size:])
		w.carry = w.carry[:n]
		w.emitted += int64(w.size)
		fn(win, w.emitted)
	}
}

// head returns the absolute end offset of the last completed window. The
// buffered partial window is never inferred and does not advance head.
func (w *windower) head() int64 { return w.emitted }

// buffered returns the carry length, always < size.
func (w *windower) buffered() int { return len(w.carry) }

func (w *windower) reset() {
	w.carry = w.carry[:0]
	w.emitted = 0
}
