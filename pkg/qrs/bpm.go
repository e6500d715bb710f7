package qrs

const (
	minBPM     = 40
	maxBPM     = 220
	bpmHistory = 5
)

// BPM turns detected peaks into a heart rate, averaging the last few
// plausible beat intervals.
type BPM struct {
	fs      int
	dist    int // samples since the last peak
	history []float64
	bpm     int
}

// NewBPM creates a tracker for a stream sampled at fs Hz.
func NewBPM(fs int) *BPM {
	return &BPM{fs: fs, history: make([]float64, 0, bpmHistory+1)}
}

// Update consumes the peak markers of one batch and returns the current rate.
func (b *BPM) Update(peaks []float32) int {
	cur := 0
	for idx, p := range peaks {
		if p == 0 {
			continue
		}
		dist := b.dist + (idx - cur) + 1
		b.dist = 0
		cur = idx + 1

		if dist <= int(0.2*float64(b.fs)) {
			continue
		}
		instant := float64(60*b.fs) / float64(dist)
		if instant <= minBPM || instant >= maxBPM {
			continue
		}

		b.history = append(b.history, instant)
		if len(b.history) > bpmHistory {
			b.history = b.history[1:]
		}
		var sum float64
		for _, h := range b.history {
			sum += h
		}
		b.bpm = int(sum / float64(len(b.history)))
	}
	b.dist += len(peaks) - cur
	return b.bpm
}

// Value returns the last computed rate.
func (b *BPM) Value() int {
	return b.bpm
}
