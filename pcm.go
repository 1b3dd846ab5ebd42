package streamvad

// Int16ToFloat32 converts signed 16-bit PCM to float32 in [-1, 1), reusing
// dst when it has enough capacity.
func Int16ToFloat32(src []int16, dst []float32) []float32 {
	if cap(dst) < len(src) {
		dst = make([]float32, len(src))
	}
	dst = dst[:len(src)]
	for i, s := range src {
		dst[i] = float32(s) / 32768
	}
	return dst
}
