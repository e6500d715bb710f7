package sample

// Downsample decimates src to at most maxPoints values for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
// If len(src) <= maxPoints, copies all values.
func Downsample[T any](dst []T, src []T, maxPoints int) []T {
	if maxPoints <= 0 || len(src) <= maxPoints {
		if cap(dst) >= len(src) {
			dst = dst[:len(src)]
			copy(dst, src)
			return dst
		}
		result := make([]T, len(src))
		copy(result, src)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]T, 0, maxPoints)
	}

	step := float64(len(src)) / float64(maxPoints)
	for i := range maxPoints {
		idx := int(float64(i) * step)
		if idx < len(src) {
			dst = append(dst, src[idx])
		}
	}

	return dst
}

// Indices returns the decimated positions Downsample would pick, so markers
// on one trace can be mapped onto a decimated one.
func Indices(dst []int, n, maxPoints int) []int {
	dst = dst[:0]
	if maxPoints <= 0 || n <= maxPoints {
		for i := range n {
			dst = append(dst, i)
		}
		return dst
	}
	step := float64(n) / float64(maxPoints)
	for i := range maxPoints {
		dst = append(dst, int(float64(i)*step))
	}
	return dst
}
