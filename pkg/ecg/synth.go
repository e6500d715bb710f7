package ecg

import (
	"github.com/chewxy/math32"

	"github.com/itohio/goecg/pkg/config"
)

// wave is one gaussian bump of the P-QRS-T complex, positioned relative to
// the R peak.
type wave struct {
	offset float32 // seconds from R
	height float32 // relative to R
	width  float32 // seconds
}

var complexWaves = [...]wave{
	{offset: -0.200, height: 0.12, width: 0.025}, // P
	{offset: -0.035, height: -0.15, width: 0.010}, // Q
	{offset: 0.000, height: 1.00, width: 0.012},  // R
	{offset: 0.035, height: -0.25, width: 0.012}, // S
	{offset: 0.280, height: 0.30, width: 0.050},  // T
}

// rPhase is where the R peak sits inside each beat, in seconds.
const rPhase = 0.3

// Synth is a synthetic ECG source. It implements daq.ADC so it can stand in
// for the analog front end of the board. Every Get advances one sample.
type Synth struct {
	rate      float32
	period    float32
	amplitude float32
	baseline  float32
	noise     float32
	wander    float32

	n    uint64
	seed uint32
}

// NewSynth creates a synthetic source sampled at rate Hz.
func NewSynth(cfg *config.MockConfig, rate int) *Synth {
	bpm := cfg.HeartRate
	if bpm <= 0 {
		bpm = 72
	}
	return &Synth{
		rate:      float32(rate),
		period:    60 / bpm,
		amplitude: cfg.Amplitude,
		baseline:  cfg.Baseline,
		noise:     cfg.Noise,
		wander:    cfg.Wander,
		seed:      0x9E3779B9,
	}
}

// Period returns the beat period in seconds.
func (s *Synth) Period() float32 {
	return s.period
}

// Value returns the next reading at 10-bit resolution.
func (s *Synth) Value() uint16 {
	t := float32(s.n) / s.rate
	s.n++

	phase := math32.Mod(t, s.period) - rPhase
	var v float32
	for _, w := range complexWaves {
		d := (phase - w.offset) / w.width
		v += w.height * math32.Exp(-0.5*d*d)
	}

	v = s.baseline + s.amplitude*v
	v += s.wander * math32.Sin(2*math32.Pi*0.3*t)
	v += s.noise * (2*s.random() - 1)

	return uint16(clamp(v, 0, MaxValue) + 0.5)
}

// Get returns the next reading left-aligned to 16 bits.
func (s *Synth) Get() uint16 {
	return s.Value() << 6
}

// random returns a uniform value in [0, 1) from a xorshift32 generator.
func (s *Synth) random() float32 {
	x := s.seed
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.seed = x
	return float32(x>>8) / (1 << 24)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
