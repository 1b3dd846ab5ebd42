package streamvad

import "fmt"

// OverflowPolicy selects what an AsyncStream does when buffered un-inferred
// audio would exceed Config.MaxBufferedMs.
type OverflowPolicy int

const (
	// OverflowFail rejects the overflowing window: Push returns ErrOverflow
	// and the already-buffered audio is kept. The default.
	OverflowFail OverflowPolicy = iota

	// OverflowDropOldest discards the oldest buffered window to make room.
	// Dropping un-inferred audio breaks recurrent-state continuity for the
	// model, so detection quality degrades until the backlog clears.
	OverflowDropOldest
)

// Config holds per-stream configuration. It is copied at construction and
// never mutated afterwards; all durations are converted to sample counts
// internally so behavior is deterministic for a given sample rate.
type Config struct {
	// SampleRate is the audio sample rate in Hz. Must match the model's
	// native rate; resampling is the caller's responsibility.
	SampleRate int

	// WindowSize is the number of samples per inference window. Must match
	// the model's required window size (512 for Silero at 16 kHz).
	WindowSize int

	// StartThreshold is the smoothed probability at or above which a window
	// counts toward confirming speech onset. Range [0, 1].
	StartThreshold float32

	// StopThreshold is the smoothed probability below which a window counts
	// toward confirming end of speech. Range [0, 1], must be <= StartThreshold;
	// the gap between the two is the hysteresis band.
	StopThreshold float32

	// MinSpeechMs is the minimum continuous above-threshold run required
	// before a speech start is confirmed.
	MinSpeechMs int

	// MinSilenceMs is the minimum continuous below-threshold run required
	// before a speech end is confirmed.
	MinSilenceMs int

	// SpeechPadMs widens every emitted segment: starts are back-dated and
	// ends pushed forward by this amount, clamped to the stream bounds.
	SpeechPadMs int

	// MaxBufferedMs caps the audio an AsyncStream may hold while waiting for
	// inference. See OverflowPolicy.
	MaxBufferedMs int

	// SmoothingDecay is the exponential moving average weight given to
	// history, in [0, 1). Zero (the default) disables smoothing.
	SmoothingDecay float32

	// Overflow selects the backpressure policy for AsyncStream.
	Overflow OverflowPolicy
}

// DefaultConfig returns a Config tuned for Silero VAD at 16 kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate:     16000,
		WindowSize:     512,
		StartThreshold: 0.5,
		StopThreshold:  0.35,
		MinSpeechMs:    250,
		MinSilenceMs:   100,
		SpeechPadMs:    30,
		MaxBufferedMs:  2000,
	}
}

// validate checks Config and returns a *ConfigError on the first invalid field.
func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return &ConfigError{Field: "SampleRate", Reason: fmt.Sprintf("must be > 0, got %d", c.SampleRate)}
	}
	if c.WindowSize <= 0 {
		return &ConfigError{Field: "WindowSize", Reason: fmt.Sprintf("must be > 0, got %d", c.WindowSize)}
	}
	if c.StartThreshold < 0 || c.StartThreshold > 1 {
		return &ConfigError{Field: "StartThreshold", Reason: fmt.Sprintf("must be in [0, 1], got %v", c.StartThreshold)}
	}
	if c.StopThreshold < 0 || c.StopThreshold > 1 {
		return &ConfigError{Field: "StopThreshold", Reason: fmt.Sprintf("must be in [0, 1], got %v", c.StopThreshold)}
	}
	if c.StopThreshold > c.StartThreshold {
		return &ConfigError{Field: "StopThreshold", Reason: "must be <= StartThreshold"}
	}
	if c.MinSpeechMs < 0 {
		return &ConfigError{Field: "MinSpeechMs", Reason: "must be >= 0"}
	}
	if c.MinSilenceMs < 0 {
		return &ConfigError{Field: "MinSilenceMs", Reason: "must be >= 0"}
	}
	if c.SpeechPadMs < 0 {
		return &ConfigError{Field: "SpeechPadMs", Reason: "must be >= 0"}
	}
	if c.MaxBufferedMs <= 0 {
		return &ConfigError{Field: "MaxBufferedMs", Reason: "must be > 0"}
	}
	if c.SmoothingDecay < 0 || c.SmoothingDecay >= 1 {
		return &ConfigError{Field: "SmoothingDecay", Reason: fmt.Sprintf("must be in [0, 1), got %v", c.SmoothingDecay)}
	}
	return nil
}

// samples converts a millisecond duration to a sample count at the stream rate.
func (c Config) samples(ms int) int64 {
	return int64(ms) * int64(c.SampleRate) / 1000
}
