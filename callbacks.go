package streamvad

// Callbacks are invoked synchronously from the goroutine that processes
// windows: the caller's goroutine for a Stream, the worker goroutine for an
// AsyncStream. All fields are optional (nil is allowed).
type Callbacks struct {
	// OnFrame receives one Frame per inferred window.
	OnFrame func(f Frame)

	// OnSpeechStart receives a confirmed speech start. The event's Audio
	// slice is freshly allocated and owned by the callback.
	OnSpeechStart func(ev SpeechEvent)

	// OnSpeechEnd receives a confirmed or synthetic speech end.
	OnSpeechEnd func(ev SpeechEvent)

	// OnError receives per-window diagnostics (*InferenceError) that did not
	// stop the stream. Fatal conditions are returned from Push instead.
	OnError func(err error)
}
