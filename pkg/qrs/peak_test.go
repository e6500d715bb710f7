package qrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// bump returns a triangular pulse of the given height centred at c.
func bump(i, c, half int, height float32) float32 {
	d := i - c
	if d < 0 {
		d = -d
	}
	if d >= half {
		return 0
	}
	return height * float32(half-d) / float32(half)
}

func TestPeakDetector_Refractory(t *testing.T) {
	p := newPeakDetector(500, 200, 1.3, 1000, 2000)
	assert.Equal(t, 100, p.refractory)
	assert.InDelta(t, 0.99846, p.decay, 1e-5)
}

func TestPeakDetector_DetectsMaxima(t *testing.T) {
	p := newPeakDetector(500, 200, 1.3, 1000, 2000)

	var peaks []int
	for i := range 1500 {
		v := bump(i, 300, 20, 20000) + bump(i, 800, 20, 20000) + bump(i, 1300, 20, 20000)
		if p.step(v, i) {
			peaks = append(peaks, i)
		}
	}

	// Detection fires on the sample after the maximum
	assert.Equal(t, []int{301, 801, 1301}, peaks)
}

func TestPeakDetector_IgnoresWithinRefractory(t *testing.T) {
	p := newPeakDetector(500, 200, 1.3, 1000, 2000)

	var peaks []int
	for i := range 700 {
		v := bump(i, 300, 10, 20000) + bump(i, 350, 10, 20000)
		if p.step(v, i) {
			peaks = append(peaks, i)
		}
	}
	assert.Equal(t, []int{301}, peaks)
}

func TestPeakDetector_BelowThreshold(t *testing.T) {
	p := newPeakDetector(500, 200, 1.3, 1000, 2000)

	for i := range 1000 {
		assert.False(t, p.step(bump(i, 500, 20, 900), i))
	}
}

func TestPeakDetector_ThresholdAdapts(t *testing.T) {
	p := newPeakDetector(500, 200, 1.3, 1000, 2000)

	for i := range 302 {
		p.step(bump(i, 300, 20, 20000), i)
	}
	// 0.4 * 20000, then one decay step
	assert.InDelta(t, 8000, p.threshold(), 20)

	for i := 302; i < 5000; i++ {
		p.step(0, i)
	}
	assert.Equal(t, 1000, p.threshold(), "decays to the floor")
}
