package scope

// Peak markers are placed on the largest filtered sample in this window
// around each detection, since detection lags the R wave.
const (
	peakSearchBefore = 40
	peakSearchAfter  = 5
)

// refinePeaks returns the signal index of the local maximum near every
// nonzero entry of peaks.
func refinePeaks(dst []int, signal, peaks []float32) []int {
	dst = dst[:0]
	for idx, p := range peaks {
		if p == 0 {
			continue
		}
		start := max(0, idx-peakSearchBefore)
		end := min(len(signal), idx+peakSearchAfter)
		if end <= start {
			dst = append(dst, idx)
			continue
		}
		best := start
		for i := start + 1; i < end; i++ {
			if signal[i] > signal[best] {
				best = i
			}
		}
		dst = append(dst, best)
	}
	return dst
}
