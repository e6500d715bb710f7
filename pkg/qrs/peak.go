package qrs

import "github.com/chewxy/math32"

// peakDetector finds local maxima of the integrated signal above an
// adaptive threshold, with a refractory period between detections.
type peakDetector struct {
	refractory int     // samples
	decay      float32 // per-sample threshold multiplier
	minTh      int

	prevMWI   float32
	prevSlope float32
	th        int
	last      int
}

func newPeakDetector(fs, intervalMS int, tau float32, minTh, initialTh int) *peakDetector {
	return &peakDetector{
		refractory: int(float64(intervalMS) * float64(fs) / 1000),
		decay:      math32.Exp(-1 / (float32(fs) * tau)),
		minTh:      minTh,
		th:         initialTh,
	}
}

// step returns true when the previous sample was a peak. The detection
// therefore lags the integrated maximum by one sample.
func (p *peakDetector) step(mwi float32, sampleIdx int) bool {
	slope := mwi - p.prevMWI
	peak := false

	if sampleIdx-p.last > p.refractory {
		if p.prevSlope > 0 && slope <= 0 && p.prevMWI > float32(p.th) {
			peak = true
			p.last = sampleIdx - 1
			p.th = int(p.prevMWI * 0.4)
		}
	}

	p.th = max(int(float32(p.th)*p.decay), p.minTh)

	p.prevMWI = mwi
	p.prevSlope = slope
	return peak
}

// threshold returns the current detection threshold.
func (p *peakDetector) threshold() int {
	return p.th
}
