package streamvad

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow is returned by Push when buffered un-inferred audio would
	// exceed Config.MaxBufferedMs and the overflow policy is OverflowFail.
	ErrOverflow = errors.New("streamvad: buffered audio limit exceeded")

	// ErrClosed is returned by Push after the stream has been closed.
	ErrClosed = errors.New("streamvad: stream is closed")
)

// ConfigError reports an invalid Config field. It is returned synchronously
// from New before any stream starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("streamvad: config: %s: %s", e.Field, e.Reason)
}

// InputError reports a malformed audio chunk. The stream stays usable; only
// the offending Push call is rejected.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "streamvad: invalid input: " + e.Reason
}

// InferenceError wraps a model backend failure for a single window. The
// stream skips the window, keeps the prior recurrent state, and continues.
type InferenceError struct {
	Offset int64 // end sample offset of the failed window
	Err    error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("streamvad: inference at sample %d: %v", e.Offset, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
