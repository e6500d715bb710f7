package main

import (
	"sync"

	"github.com/itohio/goecg/pkg/qrs"
	"github.com/itohio/goecg/pkg/ring"
)

// traces keeps the last window of every plotted series.
type traces struct {
	mu        sync.Mutex
	signal    *ring.Buffer
	mwi       *ring.Buffer
	threshold *ring.Buffer
	peaks     *ring.Buffer
	bpm       int
}

// traceSnapshot is a chronological copy handed to the UI thread.
type traceSnapshot struct {
	signal    []float32
	mwi       []float32
	threshold []float32
	peaks     []float32
	bpm       int
}

func newTraces(size int) *traces {
	return &traces{
		signal:    ring.New(size),
		mwi:       ring.New(size),
		threshold: ring.New(size),
		peaks:     ring.New(size),
	}
}

func (t *traces) push(r qrs.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.signal.Extend(r.Signal)
	t.mwi.Extend(r.MWI)
	t.threshold.Extend(r.Threshold)
	t.peaks.Extend(r.Peaks)
	t.bpm = r.BPM
}

// snapshot allocates fresh slices since the UI reads them after fyne.Do returns.
func (t *traces) snapshot() traceSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return traceSnapshot{
		signal:    t.signal.View(nil),
		mwi:       t.mwi.View(nil),
		threshold: t.threshold.View(nil),
		peaks:     t.peaks.View(nil),
		bpm:       t.bpm,
	}
}

func (t *traces) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.signal.Reset()
	t.mwi.Reset()
	t.threshold.Reset()
	t.peaks.Reset()
	t.bpm = 0
}
