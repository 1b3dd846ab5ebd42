package streamvad

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AsyncStream decouples audio ingest from inference so a real-time capture
// path never blocks on the model. Push only slices windows and queues them; a
// single worker goroutine consumes the queue in arrival order (FIFO), so
// recurrent-state updates are never reordered. Callbacks fire on the worker
// goroutine.
//
// Queued audio is capped at Config.MaxBufferedMs. When the cap is hit, Push
// either returns ErrOverflow (OverflowFail) or the oldest buffered window is
// discarded (OverflowDropOldest).
//
// Push, Reset, and Close must be serialized by the caller, like Stream.
type AsyncStream struct {
	inner  *Stream
	win    *windower
	max    int64 // queue cap in samples
	policy OverflowPolicy
	log    *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []queuedWindow
	queued  int64 // samples currently queued
	dropped uint64
	closed  bool

	// overflowed is touched only by the caller goroutine, within one Push.
	overflowed bool
	scratch    []float32

	done    chan struct{}
	lastEnd int64 // worker-side: end offset of the last processed window
}

type queuedWindow struct {
	win   []float32
	end   int64
	reset bool
}

// NewAsyncStream creates an independent stream whose inference runs on its
// own worker goroutine.
func (e *Engine) NewAsyncStream(cb Callbacks) *AsyncStream {
	a := &AsyncStream{
		inner:  e.NewStream(cb),
		win:    newWindower(e.cfg.WindowSize),
		max:    e.cfg.samples(e.cfg.MaxBufferedMs),
		policy: e.cfg.Overflow,
		done:   make(chan struct{}),
	}
	a.log = a.inner.log
	a.cond = sync.NewCond(&a.mu)
	go a.run()
	return a
}

// ID returns the stream's correlation id.
func (a *AsyncStream) ID() string { return a.inner.ID() }

// Push queues one chunk of mono float32 PCM. It never runs the model.
// Returns ErrOverflow when a completed window had to be rejected under
// OverflowFail; windows sliced before the overflow remain queued.
func (a *AsyncStream) Push(samples []float32) error {
	if a.isClosed() {
		return ErrClosed
	}
	if len(samples) == 0 {
		return &InputError{Reason: "empty chunk"}
	}
	a.overflowed = false
	a.win.push(samples, a.enqueue)
	if a.overflowed {
		return ErrOverflow
	}
	return nil
}

// PushInt16 converts signed 16-bit PCM and pushes it.
func (a *AsyncStream) PushInt16(samples []int16) error {
	if a.isClosed() {
		return ErrClosed
	}
	if len(samples) == 0 {
		return &InputError{Reason: "empty chunk"}
	}
	a.scratch = Int16ToFloat32(samples, a.scratch)
	a.overflowed = false
	a.win.push(a.scratch, a.enqueue)
	if a.overflowed {
		return ErrOverflow
	}
	return nil
}

func (a *AsyncStream) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *AsyncStream) enqueue(win []float32, end int64) {
	size := int64(len(win))
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	for a.queued+size > a.max {
		if a.policy == OverflowDropOldest && len(a.queue) > 0 {
			drop := a.queue[0]
			a.queue = a.queue[1:]
			a.queued -= int64(len(drop.win))
			a.dropped++
			a.inner.stats.DroppedWindows++
			if a.dropped == 1 || a.dropped%100 == 0 {
				a.log.Warn("inference backlog full, dropped oldest window",
					zap.Int64("offset", drop.end),
					zap.Uint64("dropped_total", a.dropped))
			}
			continue
		}
		a.overflowed = true
		return
	}
	a.queue = append(a.queue, queuedWindow{win: win, end: end})
	a.queued += size
	a.cond.Signal()
}

func (a *AsyncStream) run() {
	defer close(a.done)
	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if len(a.queue) == 0 {
			a.mu.Unlock()
			break
		}
		qw := a.queue[0]
		a.queue = a.queue[1:]
		a.queued -= int64(len(qw.win))
		a.mu.Unlock()

		if qw.reset {
			a.inner.Reset()
			a.lastEnd = 0
			continue
		}
		a.inner.processWindow(qw.win, qw.end)
		a.lastEnd = qw.end
	}
	a.inner.finishAt(a.lastEnd)
}

// Reset discards all buffered windows and reinitializes recurrent state,
// segment state, and buffers. The reset is applied by the worker in queue
// order, so it cannot interleave with a window already being inferred.
func (a *AsyncStream) Reset() {
	a.win.reset()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.queue = a.queue[:0]
	a.queued = 0
	a.queue = append(a.queue, queuedWindow{reset: true})
	a.cond.Signal()
}

// Buffered reports how much queued audio is waiting for inference.
func (a *AsyncStream) Buffered() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return samplesToDuration(a.queued, a.inner.e.cfg.SampleRate)
}

// Close stops intake and waits for the worker to drain buffered windows and
// emit the synthetic end if speech is still open. If ctx is cancelled first,
// Close returns ctx.Err() and the drain finishes in the background; no state
// is shared with other streams, so abandoning it is local.
func (a *AsyncStream) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		a.cond.Broadcast()
	}
	a.mu.Unlock()
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the stream counters. Accurate only once Close has returned.
func (a *AsyncStream) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Stats()
}
