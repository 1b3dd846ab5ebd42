package streamvad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(start, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(start + i)
	}
	return out
}

func TestWindowerCarryAcrossChunks(t *testing.T) {
	w := newWindower(512)
	var wins [][]float32
	var ends []int64
	collect := func(win []float32, end int64) {
		wins = append(wins, win)
		ends = append(ends, end)
	}

	w.push(ramp(0, 300), collect)
	assert.Empty(t, wins)
	assert.Equal(t, 300, w.buffered())

	w.push(ramp(300, 300), collect)
	require.Len(t, wins, 1)
	assert.Equal(t, int64(512), ends[0])
	assert.Equal(t, 88, w.buffered())

	w.push(ramp(600, 1000), collect)
	require.Len(t, wins, 3)
	assert.Equal(t, []int64{512, 1024, 1536}, ends)
	assert.Equal(t, 64, w.buffered())
	assert.Equal(t, int64(1536), w.head())

	// No sample dropped or reordered: windows concatenate back to the input.
	var all []float32
	for _, win := range wins {
		require.Len(t, win, 512)
		all = append(all, win...)
	}
	for i, v := range all {
		require.Equal(t, float32(i), v)
	}
}

func TestWindowerExactMultiple(t *testing.T) {
	w := newWindower(256)
	var count int
	w.push(ramp(0, 768), func([]float32, int64) { count++ })
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, w.buffered())
}

func TestWindowerReset(t *testing.T) {
	w := newWindower(128)
	w.push(ramp(0, 200), func([]float32, int64) {})
	w.reset()
	assert.Equal(t, 0, w.buffered())
	assert.Equal(t, int64(0), w.head())

	var end int64
	w.push(ramp(0, 128), func(_ []float32, e int64) { end = e })
	assert.Equal(t, int64(128), end)
}
