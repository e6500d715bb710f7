package qrs

import (
	"testing"

	"github.com/itohio/goecg/pkg/config"
	"github.com/itohio/goecg/pkg/ecg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthStream(cfg *config.Config, n int) []float32 {
	s := ecg.NewSynth(&cfg.Mock, cfg.Signal.SampleRate)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(s.Value())
	}
	return out
}

func countPeaks(peaks []float32) int {
	n := 0
	for _, p := range peaks {
		if p != 0 {
			n++
		}
	}
	return n
}

func TestPipeline_OutputLengths(t *testing.T) {
	p := NewPipeline(config.Default())
	res := p.Process(make([]float32, 10))

	assert.Len(t, res.Signal, 10)
	assert.Len(t, res.MWI, 10)
	assert.Len(t, res.Peaks, 10)
	assert.Len(t, res.Threshold, 10)
	assert.Equal(t, 10, p.Samples())
}

func TestPipeline_BatchesMatchStream(t *testing.T) {
	cfg := config.Default()
	values := synthStream(cfg, 3000)

	whole := NewPipeline(cfg).Process(values)

	p := NewPipeline(cfg)
	var mwi []float32
	var peaks []float32
	for i := 0; i < len(values); i += cfg.Batch.Size {
		res := p.Process(values[i : i+cfg.Batch.Size])
		mwi = append(mwi, res.MWI...)
		peaks = append(peaks, res.Peaks...)
	}

	assert.Equal(t, whole.MWI, mwi)
	assert.Equal(t, whole.Peaks, peaks)
}

func TestPipeline_DetectsSyntheticBeats(t *testing.T) {
	cfg := config.Default()
	// 10 s at 72 BPM: R peaks at 0.3s + k*0.833s
	values := synthStream(cfg, 10*cfg.Signal.SampleRate)

	res := NewPipeline(cfg).Process(values)

	assert.Equal(t, 12, countPeaks(res.Peaks))
	for i, th := range res.Threshold {
		require.GreaterOrEqual(t, th, float32(cfg.Peak.MinThreshold), "sample %d", i)
	}
}

func TestPipeline_FlatSignalHasNoPeaks(t *testing.T) {
	cfg := config.Default()
	values := make([]float32, 5000)
	for i := range values {
		values[i] = 512
	}

	res := NewPipeline(cfg).Process(values)
	assert.Zero(t, countPeaks(res.Peaks))
}
