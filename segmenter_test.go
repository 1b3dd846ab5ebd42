package streamvad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCfg: 30 ms windows at 16 kHz with the thresholds used throughout the
// segmentation tests.
func testCfg() Config {
	cfg := DefaultConfig()
	cfg.WindowSize = 480
	cfg.StartThreshold = 0.5
	cfg.StopThreshold = 0.35
	cfg.MinSpeechMs = 100
	cfg.MinSilenceMs = 200
	cfg.SpeechPadMs = 50
	return cfg
}

// feed runs a probability script through the segmenter, one window per value,
// and returns all emitted events.
func feed(s *segmenter, probs []float32, window int64, startOffset int64) []SpeechEvent {
	var events []SpeechEvent
	end := startOffset
	for _, p := range probs {
		end += window
		if ev, ok := s.observe(p, end); ok {
			events = append(events, ev)
		}
	}
	return events
}

func script(reps int, p float32) []float32 {
	out := make([]float32, reps)
	for i := range out {
		out[i] = p
	}
	return out
}

func TestSegmenterSilenceSpeechSilence(t *testing.T) {
	// 300 ms silence, 390 ms speech, 300 ms trailing silence.
	s := newSegmenter(testCfg())
	probs := append(append(script(10, 0.05), script(13, 0.9)...), script(10, 0.05)...)
	events := feed(s, probs, 480, 0)

	require.Len(t, events, 2)
	start, end := events[0], events[1]

	// Speech onset window ends at 5280 (330 ms); start is back-dated by the
	// 800-sample pad.
	assert.Equal(t, EventSpeechStart, start.Type)
	assert.Equal(t, int64(4480), start.Offset)

	// Last speech window ends at 11040 (690 ms); end is pushed forward by the
	// pad once 200 ms of silence confirm it.
	assert.Equal(t, EventSpeechEnd, end.Type)
	assert.Equal(t, int64(11840), end.Offset)
	assert.Equal(t, int64(7360), end.Duration)
	assert.Equal(t, stateIdle, s.state)
}

func TestSegmenterNeverReachesStart(t *testing.T) {
	s := newSegmenter(testCfg())
	events := feed(s, script(200, 0.49), 480, 0)
	assert.Empty(t, events)
	assert.Equal(t, stateIdle, s.state)
}

func TestSegmenterShortBurstBelowMinSpeech(t *testing.T) {
	// 90 ms of speech with a 100 ms minimum: no start, no state change.
	s := newSegmenter(testCfg())
	probs := append(script(3, 0.9), script(20, 0.05)...)
	events := feed(s, probs, 480, 0)
	assert.Empty(t, events)
	assert.Equal(t, stateIdle, s.state)
}

func TestSegmenterStartClampedAtOrigin(t *testing.T) {
	// Speech from the first window: the 800-sample pad would back-date the
	// start before the stream origin, so it clamps to zero.
	s := newSegmenter(testCfg())
	events := feed(s, script(4, 0.9), 480, 0)
	require.Len(t, events, 1)
	assert.Equal(t, EventSpeechStart, events[0].Type)
	assert.Equal(t, int64(0), events[0].Offset)
}

func TestSegmenterCandidateCancelledByDip(t *testing.T) {
	// Three above-threshold windows, a dip, then three more: neither run
	// reaches 100 ms on its own, so no start is emitted.
	s := newSegmenter(testCfg())
	probs := append(append(script(3, 0.9), 0.2), script(3, 0.9)...)
	events := feed(s, probs, 480, 0)
	assert.Empty(t, events)
}

func TestSegmenterHysteresisBandFreezesSilenceRun(t *testing.T) {
	s := newSegmenter(testCfg())
	probs := script(4, 0.9) // confirm speech
	// Windows inside the band (0.35..0.5) neither end the segment nor reset
	// the silence accumulator.
	probs = append(probs, script(30, 0.4)...)
	events := feed(s, probs, 480, 0)
	require.Len(t, events, 1)
	assert.Equal(t, EventSpeechStart, events[0].Type)
	assert.Equal(t, stateSpeech, s.state)
}

func TestSegmenterSilenceRunResetByOppositeThreshold(t *testing.T) {
	s := newSegmenter(testCfg())
	probs := script(4, 0.9) // speech confirmed at window 4
	// 90 ms of silence (not enough), one window back over the start threshold
	// (resets the run), then 210 ms of silence that confirms the end.
	probs = append(probs, script(3, 0.05)...)
	probs = append(probs, 0.9)
	probs = append(probs, script(7, 0.05)...)
	events := feed(s, probs, 480, 0)

	require.Len(t, events, 2)
	end := events[1]
	require.Equal(t, EventSpeechEnd, end.Type)
	// candidate end = end offset of the resetting 0.9 window (window 8, 3840).
	assert.Equal(t, int64(3840+800), end.Offset)
}

func TestSegmenterEqualThresholds(t *testing.T) {
	cfg := testCfg()
	cfg.StartThreshold = 0.5
	cfg.StopThreshold = 0.5
	s := newSegmenter(cfg)
	probs := append(script(6, 0.7), script(10, 0.3)...)
	events := feed(s, probs, 480, 0)
	require.Len(t, events, 2)
	assert.Equal(t, EventSpeechStart, events[0].Type)
	assert.Equal(t, EventSpeechEnd, events[1].Type)
	assert.Greater(t, events[1].Offset, events[0].Offset)
}

func TestSegmenterFlushForcesSyntheticEnd(t *testing.T) {
	s := newSegmenter(testCfg())
	events := feed(s, script(6, 0.9), 480, 0)
	require.Len(t, events, 1) // start only, segment still open

	ev, ok := s.flush(6 * 480)
	require.True(t, ok)
	assert.Equal(t, EventSpeechEnd, ev.Type)
	assert.Equal(t, int64(2880), ev.Offset)
	assert.Equal(t, int64(2880), ev.Duration) // start clamped to 0
	assert.Equal(t, stateIdle, s.state)

	// Idle flush emits nothing.
	_, ok = s.flush(6 * 480)
	assert.False(t, ok)
}

func TestSegmenterEndPadClampedAtHead(t *testing.T) {
	// Large pad with a short silence requirement: the padded end would land
	// past the confirming window, so it clamps to the stream head.
	cfg := testCfg()
	cfg.SpeechPadMs = 500
	cfg.MinSilenceMs = 30
	s := newSegmenter(cfg)
	probs := append(script(4, 0.9), 0.05)
	events := feed(s, probs, 480, 0)
	require.Len(t, events, 2)
	assert.Equal(t, int64(5*480), events[1].Offset)
}

func TestSegmenterReset(t *testing.T) {
	s := newSegmenter(testCfg())
	feed(s, script(6, 0.9), 480, 0)
	require.Equal(t, stateSpeech, s.state)

	s.reset()
	assert.Equal(t, stateIdle, s.state)

	events := feed(s, append(script(4, 0.9), script(7, 0.05)...), 480, 0)
	require.Len(t, events, 2)
}
