// Package scope draws the ECG monitor traces as a Fyne widget.
package scope

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goecg/pkg/config"
	"github.com/itohio/goecg/pkg/sample"
)

// trace is one downsampled series with the sample index of every point.
type trace struct {
	x []int
	y []float32
}

// ScopeWidget is a custom Fyne widget with two stacked plots: the filtered
// ECG with R peak markers, and the integrated signal with its threshold.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu        sync.RWMutex
	length    int // samples on screen
	signal    trace
	mwi       trace
	threshold trace
	peaks     []int
	peakVals  []float32
	bpm       int

	// Auto-scaling
	ecgMin, ecgMax float32
	mwiMin, mwiMax float32

	maxDisplayPoints int
	window           int // samples the x axis spans
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	s := &ScopeWidget{
		cfg:              cfg,
		maxDisplayPoints: cfg.Plot.MaxPoints,
		window:           cfg.Plot.BufferSize,
		ecgMin:           -200,
		ecgMax:           300,
		mwiMin:           0,
		mwiMax:           10000,
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the displayed traces. All slices are chronological
// and of equal length. Call it on the Fyne thread (fyne.Do).
func (s *ScopeWidget) UpdateData(signal, mwi, threshold, peaks []float32, bpm int) {
	s.mu.Lock()

	n := len(signal)
	s.length = n
	s.signal.x = sample.Indices(s.signal.x, n, s.maxDisplayPoints)
	s.signal.y = sample.Downsample(s.signal.y, signal, s.maxDisplayPoints)
	s.mwi.x = sample.Indices(s.mwi.x, len(mwi), s.maxDisplayPoints)
	s.mwi.y = sample.Downsample(s.mwi.y, mwi, s.maxDisplayPoints)
	s.threshold.x = sample.Indices(s.threshold.x, len(threshold), s.maxDisplayPoints)
	s.threshold.y = sample.Downsample(s.threshold.y, threshold, s.maxDisplayPoints)

	s.peaks = refinePeaks(s.peaks, signal, peaks)
	s.peakVals = s.peakVals[:0]
	for _, idx := range s.peaks {
		s.peakVals = append(s.peakVals, signal[idx])
	}
	s.bpm = bpm

	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh outside the lock; the renderer takes a read lock
	s.Refresh()
}

// BPM returns the displayed heart rate.
func (s *ScopeWidget) BPM() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bpm
}

// Peaks returns the sample indices of the displayed peak markers.
func (s *ScopeWidget) Peaks() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.peaks...)
}

// updateAutoScale fits both Y ranges to the data with a 10% margin.
func (s *ScopeWidget) updateAutoScale() {
	if len(s.signal.y) > 0 {
		s.ecgMin, s.ecgMax = bounds(s.signal.y)
		s.ecgMin, s.ecgMax = pad(s.ecgMin, s.ecgMax)
	}

	if len(s.mwi.y) > 0 {
		lo, hi := bounds(s.mwi.y)
		if len(s.threshold.y) > 0 {
			tlo, thi := bounds(s.threshold.y)
			lo, hi = min(lo, tlo), max(hi, thi)
		}
		s.mwiMin, s.mwiMax = pad(min(lo, 0), hi)
	}
}

func bounds(v []float32) (lo, hi float32) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return lo, hi
}

func pad(lo, hi float32) (float32, float32) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	margin := r * 0.1
	return lo - margin, hi + margin
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}
