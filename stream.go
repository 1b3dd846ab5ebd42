package streamvad

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine binds a loaded Model to a validated Config and hands out independent
// streams. One Engine (and one underlying model session) may serve any number
// of concurrent streams; each stream carries its own recurrent state, buffers,
// and segment state, so streams never share mutable data.
type Engine struct {
	cfg   Config
	model Model
	log   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for per-window diagnostics. Defaults to a no-op
// logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New validates cfg against the model's requirements and returns an Engine.
// Configuration problems are reported synchronously as *ConfigError before
// any stream starts.
func New(cfg Config, model Model, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, &ConfigError{Field: "Model", Reason: "required"}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if got := model.SampleRate(); cfg.SampleRate != got {
		return nil, &ConfigError{Field: "SampleRate", Reason: "does not match model native rate"}
	}
	if got := model.WindowSize(); cfg.WindowSize != got {
		return nil, &ConfigError{Field: "WindowSize", Reason: "does not match model window size"}
	}
	e := &Engine{cfg: cfg, model: model, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Stats are per-stream counters. Read them only from the goroutine that
// drives the stream, or after Close.
type Stats struct {
	Windows        uint64 // windows successfully inferred
	SpeechWindows  uint64 // windows at or above the start threshold
	FailedWindows  uint64 // windows skipped because inference failed
	DroppedWindows uint64 // windows discarded under OverflowDropOldest
	Segments       uint64 // speech ends emitted, synthetic ends included
}

// Stream is the synchronous per-stream driver: each Push runs windowing,
// inference, smoothing, and segmentation inline and reports results through
// the stream's Callbacks before returning. Not safe for concurrent use; the
// caller must serialize pushes. Independent streams may run in parallel.
type Stream struct {
	e  *Engine
	cb Callbacks
	id string

	log     *zap.Logger
	win     *windower
	sm      *smoother
	seg     *segmenter
	recent  *onsetRing
	state   State
	scratch []float32
	stats   Stats
	closed  bool
}

// NewStream creates an independent stream with fresh state.
func (e *Engine) NewStream(cb Callbacks) *Stream {
	id := uuid.NewString()
	return &Stream{
		e:      e,
		cb:     cb,
		id:     id,
		log:    e.log.With(zap.String("stream", id)),
		win:    newWindower(e.cfg.WindowSize),
		sm:     newSmoother(e.cfg.SmoothingDecay),
		seg:    newSegmenter(e.cfg),
		recent: newOnsetRing(onsetCapacity(e.cfg)),
		state:  e.model.InitialState(),
	}
}

// onsetCapacity is how many recent windows a stream keeps so a confirmed
// start can hand back the padded onset audio: pad plus the confirmation run,
// with one window of slack on either side.
func onsetCapacity(cfg Config) int {
	n := cfg.samples(cfg.SpeechPadMs) + cfg.samples(cfg.MinSpeechMs)
	return int(n/int64(cfg.WindowSize)) + 2
}

// ID returns the stream's correlation id, also attached to log entries.
func (s *Stream) ID() string { return s.id }

// Push processes one chunk of mono float32 PCM at the configured sample rate.
// Chunk sizes are arbitrary; a trailing partial window is carried over to the
// next call. Returns *InputError for a malformed chunk (the stream stays
// usable) or ErrClosed after Close.
func (s *Stream) Push(samples []float32) error {
	if s.closed {
		return ErrClosed
	}
	if len(samples) == 0 {
		return &InputError{Reason: "empty chunk"}
	}
	s.win.push(samples, s.processWindow)
	return nil
}

// PushInt16 converts signed 16-bit PCM and pushes it.
func (s *Stream) PushInt16(samples []int16) error {
	if s.closed {
		return ErrClosed
	}
	if len(samples) == 0 {
		return &InputError{Reason: "empty chunk"}
	}
	s.scratch = Int16ToFloat32(samples, s.scratch)
	s.win.push(s.scratch, s.processWindow)
	return nil
}

// processWindow runs one completed window through the model, smoother, and
// segmenter. An inference failure skips the window and keeps the prior
// recurrent state so one bad window cannot corrupt the rest of the stream.
func (s *Stream) processWindow(win []float32, end int64) {
	s.recent.add(win, end)
	prob, next, err := s.e.model.Infer(win, s.state)
	if err != nil {
		s.stats.FailedWindows++
		s.log.Warn("inference failed, window skipped",
			zap.Int64("offset", end), zap.Error(err))
		if s.cb.OnError != nil {
			s.cb.OnError(&InferenceError{Offset: end, Err: err})
		}
		return
	}
	s.state = next
	s.stats.Windows++

	p := s.sm.smooth(prob)
	if p >= s.e.cfg.StartThreshold {
		s.stats.SpeechWindows++
	}
	if s.cb.OnFrame != nil {
		s.cb.OnFrame(Frame{Raw: prob, Probability: p, Offset: end})
	}

	ev, ok := s.seg.observe(p, end)
	if !ok {
		return
	}
	switch ev.Type {
	case EventSpeechStart:
		ev.Audio = s.recent.slice(ev.Offset)
		if s.cb.OnSpeechStart != nil {
			s.cb.OnSpeechStart(ev)
		}
	case EventSpeechEnd:
		s.stats.Segments++
		if s.cb.OnSpeechEnd != nil {
			s.cb.OnSpeechEnd(ev)
		}
	}
}

// Reset reinitializes recurrent state, segment state, smoothing history, and
// all buffers without reconstructing Config. Offsets restart at zero, so
// replaying an identical chunk sequence reproduces the identical events.
func (s *Stream) Reset() {
	s.win.reset()
	s.sm.reset()
	s.seg.reset()
	s.recent.reset()
	s.state = s.e.model.InitialState()
	s.stats = Stats{}
}

// Close ends the stream. If a confirmed segment is still open, a synthetic
// end is force-emitted at the last completed window's offset so every start
// has a matching end. Closing twice is safe.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.finish()
	return nil
}

func (s *Stream) finish() { s.finishAt(s.win.head()) }

func (s *Stream) finishAt(off int64) {
	if ev, ok := s.seg.flush(off); ok {
		s.stats.Segments++
		if s.cb.OnSpeechEnd != nil {
			s.cb.OnSpeechEnd(ev)
		}
	}
}

// Stats returns a snapshot of the stream counters.
func (s *Stream) Stats() Stats { return s.stats }

// onsetRing keeps the most recent inference windows so a confirmed speech
// start can surface the padded onset audio.
type onsetRing struct {
	entries []ringEntry
	next    int
	count   int
}

type ringEntry struct {
	win []float32
	end int64
}

func newOnsetRing(capWindows int) *onsetRing {
	if capWindows < 1 {
		capWindows = 1
	}
	return &onsetRing{entries: make([]ringEntry, capWindows)}
}

func (r *onsetRing) add(win []float32, end int64) {
	r.entries[r.next] = ringEntry{win: win, end: end}
	r.next = (r.next + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// slice returns a fresh copy of all buffered samples at offset >= from, in
// chronological order.
func (r *onsetRing) slice(from int64) []float32 {
	var out []float32
	start := (r.next - r.count + len(r.entries)) % len(r.entries)
	for i := 0; i < r.count; i++ {
		e := r.entries[(start+i)%len(r.entries)]
		if e.end <= from {
			continue
		}
		si := 0
		if begin := e.end - int64(len(e.win)); begin < from {
			si = int(from - begin)
		}
		out = append(out, e.win[si:]...)
	}
	return out
}

func (r *onsetRing) reset() {
	for i := range r.entries {
		r.entries[i] = ringEntry{}
	}
	r.next = 0
	r.count = 0
}
