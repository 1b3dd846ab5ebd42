package streamvad

// State is the model's memory of prior audio, carried between consecutive
// Infer calls on one logical stream. It is opaque to the engine: the stream
// only threads the value returned from one call into the next, and replaces
// it with InitialState on Reset. A State must never be shared between streams.
type State any

// Model is the acoustic model contract. It scores one fixed-size window of
// mono PCM and returns the speech probability plus the updated recurrent
// state. Implementations must be deterministic given identical window and
// state, must not retain the window slice past the call, and must be safe
// for concurrent Infer calls from independent streams (the per-stream State
// carries all cross-call mutation).
type Model interface {
	// SampleRate returns the model's native sample rate in Hz.
	SampleRate() int

	// WindowSize returns the exact number of samples Infer expects.
	WindowSize() int

	// InitialState returns a fresh zero state for a new stream.
	InitialState() State

	// Infer scores one window. On error the returned state is ignored and
	// the stream keeps its prior state.
	Infer(window []float32, st State) (prob float32, next State, err error)
}
