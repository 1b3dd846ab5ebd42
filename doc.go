// Package streamvad is a streaming voice activity detector. It buffers
// incoming PCM into fixed-size model windows, invokes a probabilistic speech
// model per window, optionally smooths the probabilities, and drives a
// hysteresis state machine that turns them into stable speech start/end
// events with padding and minimum-duration guarantees.
//
// The acoustic model is pluggable through the Model interface; SileroModel
// provides an ONNX Runtime backend for Silero VAD. One Engine may serve any
// number of independent streams, either synchronously (Stream) or with
// inference decoupled onto a worker goroutine (AsyncStream).
package streamvad
