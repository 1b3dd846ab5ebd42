package streamvad

import "time"

// EventType enumerates speech segment transitions.
type EventType int

const (
	// EventSpeechStart marks a confirmed transition into speech.
	EventSpeechStart EventType = iota

	// EventSpeechEnd marks a confirmed transition out of speech. Every start
	// is paired with exactly one end, including a synthetic end emitted at
	// stream close when speech is still active.
	EventSpeechEnd
)

func (t EventType) String() string {
	switch t {
	case EventSpeechStart:
		return "speech_start"
	case EventSpeechEnd:
		return "speech_end"
	default:
		return "unknown"
	}
}

// SpeechEvent is a segment boundary. Offsets are absolute sample positions
// from stream start and already include the configured padding: a start is
// back-dated by SpeechPadMs (clamped at offset 0) and an end is pushed
// forward by SpeechPadMs (clamped at the current stream head), so consumers
// can slice capture buffers with [Start.Offset, End.Offset) directly.
type SpeechEvent struct {
	Type   EventType
	Offset int64

	// Duration is End.Offset minus the matching start's Offset, in samples.
	// Zero for start events.
	Duration int64

	// Audio holds the padded onset audio (from Offset up to the confirming
	// window) for start events produced by a Stream. Nil for end events.
	Audio []float32
}

// Time converts the event offset to a duration from stream start.
func (e SpeechEvent) Time(sampleRate int) time.Duration {
	return samplesToDuration(e.Offset, sampleRate)
}

// Frame is the per-window diagnostic output: the raw model probability, the
// smoothed value the segmenter actually thresholded, and the window's end
// sample offset.
type Frame struct {
	Raw         float32
	Probability float32
	Offset      int64
}

// Time converts the frame offset to a duration from stream start.
func (f Frame) Time(sampleRate int) time.Duration {
	return samplesToDuration(f.Offset, sampleRate)
}

func samplesToDuration(n int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(sampleRate)
}
