package streamvad

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	// SileroSampleRate is the model's native sample rate.
	SileroSampleRate = 16000

	// SileroWindowSize is the exact window length the model consumes (32 ms
	// at 16 kHz).
	SileroWindowSize = 512

	sileroContextSamples = 64
	sileroInputSamples   = sileroContextSamples + SileroWindowSize // 576
	sileroStateSize      = 2 * 1 * 128
)

// sileroState is the recurrent state for one stream: the LSTM hidden state
// plus the 64-sample context tail prepended to the next window. Infer returns
// a fresh value each call and never mutates its input, so feeding an output
// state back in reproduces deterministic behavior for the same windows.
type sileroState struct {
	hidden  [sileroStateSize]float32
	context [sileroContextSamples]float32
}

// SileroModel runs the Silero VAD ONNX graph. The session itself carries no
// cross-call memory; everything recurrent lives in the per-stream State, so
// one loaded model may serve any number of concurrent streams. Infer calls
// are serialized on the session.
type SileroModel struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
}

// NewSileroModel loads silero_vad.onnx from modelPath and initializes the
// ONNX Runtime environment if needed. Call InitRuntime or
// ort.SetSharedLibraryPath first when the runtime shared library is not on
// the default search path.
func NewSileroModel(modelPath string) (*SileroModel, error) {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input", "state", "sr"},
		[]string{"output", "stateN"},
		nil)
	if err != nil {
		return nil, fmt.Errorf("load silero model: %w", err)
	}
	return &SileroModel{session: session}, nil
}

func (m *SileroModel) SampleRate() int { return SileroSampleRate }

func (m *SileroModel) WindowSize() int { return SileroWindowSize }

// InitialState returns the zero recurrent state for a new stream.
func (m *SileroModel) InitialState() State { return &sileroState{} }

// Infer scores one 512-sample window and returns the speech probability with
// the next recurrent state.
func (m *SileroModel) Infer(window []float32, st State) (float32, State, error) {
	prev, ok := st.(*sileroState)
	if !ok || prev == nil {
		return 0, st, fmt.Errorf("silero: unexpected state type %T", st)
	}
	if len(window) != SileroWindowSize {
		return 0, st, fmt.Errorf("silero: window must be %d samples, got %d", SileroWindowSize, len(window))
	}

	// Model input is context tail (64) + window (512).
	inputData := make([]float32, sileroInputSamples)
	copy(inputData, prev.context[:])
	copy(inputData[sileroContextSamples:], window)

	input, err := ort.NewTensor(ort.NewShape(1, sileroInputSamples), inputData)
	if err != nil {
		return 0, st, err
	}
	defer input.Destroy()

	stateData := make([]float32, sileroStateSize)
	copy(stateData, prev.hidden[:])
	stateIn, err := ort.NewTensor(ort.NewShape(2, 1, 128), stateData)
	if err != nil {
		return 0, st, err
	}
	defer stateIn.Destroy()

	sr, err := ort.NewTensor(ort.NewShape(1), []int64{SileroSampleRate})
	if err != nil {
		return 0, st, err
	}
	defer sr.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return 0, st, err
	}
	defer output.Destroy()

	stateOut, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, 128))
	if err != nil {
		return 0, st, err
	}
	defer stateOut.Destroy()

	m.mu.Lock()
	err = m.session.Run(
		[]ort.Value{input, stateIn, sr},
		[]ort.Value{output, stateOut})
	m.mu.Unlock()
	if err != nil {
		return 0, st, err
	}

	next := &sileroState{}
	copy(next.hidden[:], stateOut.GetData())
	copy(next.context[:], inputData[sileroInputSamples-sileroContextSamples:])
	return output.GetData()[0], next, nil
}

// Close releases the ONNX session. Streams built on this model must not be
// used afterwards.
func (m *SileroModel) Close() error {
	return m.session.Destroy()
}
