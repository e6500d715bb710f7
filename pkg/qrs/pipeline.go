// Package qrs detects QRS complexes in a raw ECG stream using the
// Pan-Tompkins chain: highpass, moving average, derivative, squaring,
// moving-window integration and adaptive-threshold peak picking.
package qrs

import (
	"github.com/itohio/goecg/pkg/config"
)

// Result holds the per-sample outputs of one processed batch.
type Result struct {
	Signal    []float32 // Filtered ECG (after the moving average)
	MWI       []float32 // Moving-window integral
	Peaks     []float32 // 1 where a peak was detected, else 0
	Threshold []float32 // Detection threshold after each sample
	BPM       int       // Heart rate, 0 until enough beats are seen
}

// Pipeline is the stateful filter chain. It is not safe for concurrent use.
type Pipeline struct {
	hp   highpass
	ma   *movingAverage
	d    *derivative
	mwi  *integrator
	peak *peakDetector

	idx int
}

// NewPipeline creates a pipeline from the filter, window and peak settings.
func NewPipeline(cfg *config.Config) *Pipeline {
	fs := cfg.Signal.SampleRate
	return &Pipeline{
		hp:   highpass{alpha: highpassAlpha(cfg.Filter.HighpassCutoff, fs)},
		ma:   newMovingAverage(cfg.Window.MovingAverage),
		d:    newDerivative(cfg.Window.Derivative),
		mwi:  newIntegrator(cfg.Window.Integration),
		peak: newPeakDetector(fs, cfg.Peak.IntervalMS, cfg.Peak.Tau, cfg.Peak.MinThreshold, cfg.Peak.InitialThreshold),
	}
}

// Samples returns how many samples have been processed.
func (p *Pipeline) Samples() int {
	return p.idx
}

// Process runs values through the chain. Filter state carries over to the
// next call, so consecutive batches behave like one continuous stream.
func (p *Pipeline) Process(values []float32) Result {
	n := len(values)
	res := Result{
		Signal:    make([]float32, n),
		MWI:       make([]float32, n),
		Peaks:     make([]float32, n),
		Threshold: make([]float32, n),
	}

	for i, raw := range values {
		hp := p.hp.step(raw)
		lp := p.ma.step(hp)
		d := p.d.step(lp, p.idx)
		sq := d * d
		mwi := p.mwi.step(sq)

		if p.peak.step(mwi, p.idx) {
			res.Peaks[i] = 1
		}

		res.Signal[i] = lp
		res.MWI[i] = mwi
		res.Threshold[i] = float32(p.peak.threshold())

		p.idx++
	}

	return res
}
