package main

import (
	"testing"

	"github.com/itohio/goecg/pkg/qrs"
	"github.com/stretchr/testify/assert"
)

func result(n int, v float32, bpm int) qrs.Result {
	r := qrs.Result{
		Signal:    make([]float32, n),
		MWI:       make([]float32, n),
		Threshold: make([]float32, n),
		Peaks:     make([]float32, n),
		BPM:       bpm,
	}
	for i := range n {
		r.Signal[i] = v + float32(i)
		r.MWI[i] = 2 * v
		r.Threshold[i] = 3 * v
	}
	return r
}

func TestTraces_WindowKeepsLatest(t *testing.T) {
	tr := newTraces(5)
	tr.push(result(3, 0, 0))
	tr.push(result(3, 10, 72))

	snap := tr.snapshot()
	assert.Equal(t, []float32{1, 2, 10, 11, 12}, snap.signal)
	assert.Len(t, snap.mwi, 5)
	assert.Len(t, snap.threshold, 5)
	assert.Len(t, snap.peaks, 5)
	assert.Equal(t, 72, snap.bpm)
}

func TestTraces_SnapshotIsCopy(t *testing.T) {
	tr := newTraces(4)
	tr.push(result(2, 1, 60))
	snap := tr.snapshot()
	tr.push(result(2, 5, 61))

	assert.Equal(t, []float32{1, 2}, snap.signal)
}

func TestTraces_Reset(t *testing.T) {
	tr := newTraces(4)
	tr.push(result(4, 1, 80))
	tr.reset()

	snap := tr.snapshot()
	assert.Empty(t, snap.signal)
	assert.Zero(t, snap.bpm)
}
