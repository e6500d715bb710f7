package qrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighpassAlpha(t *testing.T) {
	assert.InDelta(t, 0.97547, highpassAlpha(2.0, 500), 1e-4)
	assert.Equal(t, float32(1), highpassAlpha(0, 500))
	assert.Equal(t, float32(1), highpassAlpha(-1, 500))
}

func TestHighpass_RemovesDC(t *testing.T) {
	f := highpass{alpha: highpassAlpha(2.0, 500)}
	var y float32
	for range 2000 {
		y = f.step(512)
	}
	assert.InDelta(t, 0, y, 0.01)
}

func TestHighpass_Passthrough(t *testing.T) {
	f := highpass{alpha: 1}
	assert.Equal(t, float32(5), f.step(5))
	assert.Equal(t, float32(7), f.step(7))
}

func TestMovingAverage(t *testing.T) {
	f := newMovingAverage(4)
	assert.Equal(t, float32(2), f.step(8))
	assert.Equal(t, float32(4), f.step(8))
	assert.Equal(t, float32(6), f.step(8))
	assert.Equal(t, float32(8), f.step(8))
	assert.Equal(t, float32(8), f.step(8))
	assert.Equal(t, float32(6), f.step(0))
}

func TestDerivative_Ramp(t *testing.T) {
	const slope = 3
	f := newDerivative(8)
	for i := range 20 {
		d := f.step(float32(i*slope), i)
		switch {
		case i < 5:
			assert.Zero(t, d, "sample %d", i)
		case i >= 9:
			assert.Equal(t, float32(10*slope), d, "sample %d", i)
		}
	}
}

func TestDerivative_Constant(t *testing.T) {
	f := newDerivative(8)
	var d float32
	for i := range 20 {
		d = f.step(100, i)
	}
	assert.Zero(t, d)
}

func TestIntegrator(t *testing.T) {
	f := newIntegrator(4)
	assert.Equal(t, float32(2), f.step(10))  // 10/4 truncated
	assert.Equal(t, float32(5), f.step(10))  // 20/4
	assert.Equal(t, float32(7), f.step(10))  // 30/4 truncated
	assert.Equal(t, float32(10), f.step(10)) // 40/4
	assert.Equal(t, float32(10), f.step(10))
}

func TestIntegrator_ClampsAtZero(t *testing.T) {
	f := newIntegrator(2)
	assert.Equal(t, float32(0), f.step(-10))
	assert.Equal(t, float32(0), f.step(-10))
	assert.GreaterOrEqual(t, f.sum, 0.0)
}
