package qrs

import "github.com/chewxy/math32"

// highpass removes baseline wander: y[n] = a * (y[n-1] + x[n] - x[n-1]).
type highpass struct {
	alpha float32
	yPrev float32
	xPrev float32
}

// highpassAlpha returns the single-pole coefficient for cutoff fc at rate fs.
// A non-positive cutoff passes the signal through.
func highpassAlpha(fc float32, fs int) float32 {
	if fc <= 0 || fs <= 0 {
		return 1
	}
	dt := 1 / float32(fs)
	tau := 1 / (2 * math32.Pi * fc)
	return tau / (tau + dt)
}

func (f *highpass) step(x float32) float32 {
	y := f.alpha * (f.yPrev + x - f.xPrev)
	f.yPrev = y
	f.xPrev = x
	return y
}

// movingAverage is a running mean over len(buf) samples, used as the
// powerline lowpass: y[n] = y[n-1] + (x[n] - x[n-L]) / L.
type movingAverage struct {
	buf []float32
	idx int
	sum float64
}

func newMovingAverage(n int) *movingAverage {
	return &movingAverage{buf: make([]float32, n)}
}

func (f *movingAverage) step(x float32) float32 {
	f.sum += float64(x) - float64(f.buf[f.idx])
	f.buf[f.idx] = x
	f.idx = (f.idx + 1) % len(f.buf)
	return float32(f.sum / float64(len(f.buf)))
}

// derivative is the five-point slope d[n] = 2x[n] + x[n-1] - x[n-3] - 2x[n-4].
// It outputs zero until five samples have gone by.
type derivative struct {
	buf []float32
	idx int
}

func newDerivative(n int) *derivative {
	return &derivative{buf: make([]float32, n)}
}

func (f *derivative) step(x float32, sampleIdx int) float32 {
	if sampleIdx < 5 {
		return 0
	}
	n := len(f.buf)
	f.buf[f.idx] = x

	x0 := f.buf[f.idx]
	x1 := f.buf[(f.idx-1+n)%n]
	x3 := f.buf[(f.idx-3+n)%n]
	x4 := f.buf[(f.idx-4+n)%n]

	f.idx = (f.idx + 1) % n
	return 2*x0 + x1 - x3 - 2*x4
}

// integrator is the moving-window integration S[n] = S[n-1] + x[n] - x[n-L],
// clamped at zero and reported as a truncated mean.
type integrator struct {
	buf []float32
	idx int
	sum float64
}

func newIntegrator(n int) *integrator {
	return &integrator{buf: make([]float32, n)}
}

func (f *integrator) step(x float32) float32 {
	f.sum += float64(x) - float64(f.buf[f.idx])
	f.buf[f.idx] = x
	f.sum = max(0, f.sum)
	f.idx = (f.idx + 1) % len(f.buf)
	return float32(int64(f.sum / float64(len(f.buf))))
}
