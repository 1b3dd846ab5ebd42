package streamvad

type segState int

const (
	stateIdle segState = iota
	stateSpeech
)

// segmenter is the hysteresis state machine that turns the noisy per-window
// probability stream into stable speech segments. Pure arithmetic over sample
// offsets; no audio, no model, no callbacks.
//
// All timestamps are window-end sample offsets. A transition in either
// direction must first be confirmed by a candidate run: consecutive windows
// on the far side of the relevant threshold whose accumulated duration meets
// the configured minimum. Windows that cross back over the opposite threshold
// reset the run; windows between the two thresholds leave it untouched.
type segmenter struct {
	startThreshold float32
	stopThreshold  float32
	minSpeech      int64 // samples
	minSilence     int64 // samples
	pad            int64 // samples
	window         int64 // samples per inference window

	state    segState
	runLen   int64 // accumulated samples in the current candidate run
	runStart int64 // end offset of the first window of a start-candidate run
	candEnd  int64 // end offset of the last speech window before a stop-candidate run
	segStart int64 // emitted (padded, clamped) start offset of the open segment
}

func newSegmenter(cfg Config) *segmenter {
	return &segmenter{
		startThreshold: cfg.StartThreshold,
		stopThreshold:  cfg.StopThreshold,
		minSpeech:      cfg.samples(cfg.MinSpeechMs),
		minSilence:     cfg.samples(cfg.MinSilenceMs),
		pad:            cfg.samples(cfg.SpeechPadMs),
		window:         int64(cfg.WindowSize),
	}
}

// observe feeds one window's probability p and end offset. At most one event
// is produced per window.
func (s *segmenter) observe(p float32, end int64) (SpeechEvent, bool) {
	switch s.state {
	case stateIdle:
		if p < s.startThreshold {
			// Dipped below the start threshold before confirmation: the
			// candidate is cancelled and the run starts over.
			s.runLen = 0
			break
		}
		if s.runLen == 0 {
			s.runStart = end
		}
		s.runLen += s.window
		if s.runLen >= s.minSpeech {
			start := s.runStart - s.pad
			if start < 0 {
				start = 0
			}
			s.state = stateSpeech
			s.segStart = start
			s.runLen = 0
			return SpeechEvent{Type: EventSpeechStart, Offset: start}, true
		}
	case stateSpeech:
		switch {
		case p < s.stopThreshold:
			if s.runLen == 0 {
				s.candEnd = end - s.window
			}
			s.runLen += s.window
			if s.runLen >= s.minSilence {
				off := s.candEnd + s.pad
				if off > end {
					off = end
				}
				s.state = stateIdle
				s.runLen = 0
				return SpeechEvent{Type: EventSpeechEnd, Offset: off, Duration: off - s.segStart}, true
			}
		case p >= s.startThreshold:
			// Crossed back over the opposite threshold: the silence run
			// resets but the segment stays open.
			s.runLen = 0
		default:
			// Inside the hysteresis band: the run neither grows nor resets.
		}
	}
	return SpeechEvent{}, false
}

// flush force-closes an open segment at stream close so every start gets a
// matching end. at is the last completed window's end offset; end padding is
// not applied past the stream head.
func (s *segmenter) flush(at int64) (SpeechEvent, bool) {
	if s.state != stateSpeech {
		s.runLen = 0
		return SpeechEvent{}, false
	}
	ev := SpeechEvent{Type: EventSpeechEnd, Offset: at, Duration: at - s.segStart}
	s.state = stateIdle
	s.runLen = 0
	return ev, true
}

func (s *segmenter) reset() {
	s.state = stateIdle
	s.runLen = 0
	s.runStart = 0
	s.candEnd = 0
	s.segStart = 0
}
