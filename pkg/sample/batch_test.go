package sample

import (
	"testing"
	"time"

	"github.com/itohio/goecg/pkg/ecg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcher_FullBatches(t *testing.T) {
	input := make(chan ecg.RawSample, 30)
	output := NewBatcher(10, 10)(input)

	now := time.Now()
	for i := range 25 {
		input <- ecg.RawSample{Timestamp: now.Add(time.Duration(i) * 2 * time.Millisecond), Value: uint16(i)}
	}
	close(input)

	var batches []Batch
	for b := range output {
		batches = append(batches, b)
	}

	require.Len(t, batches, 3)
	assert.Equal(t, 10, batches[0].Len())
	assert.Equal(t, 10, batches[1].Len())
	assert.Equal(t, 5, batches[2].Len(), "partial batch flushed on close")

	assert.Equal(t, float32(0), batches[0].Values[0])
	assert.Equal(t, float32(9), batches[0].Values[9])
	assert.Equal(t, float32(10), batches[1].Values[0])
	assert.Equal(t, float32(24), batches[2].Values[4])

	assert.Equal(t, now, batches[0].Start)
	assert.Equal(t, now.Add(18*time.Millisecond), batches[0].End)
	assert.Equal(t, now.Add(20*time.Millisecond), batches[1].Start)
}

func TestBatcher_InvalidSize(t *testing.T) {
	input := make(chan ecg.RawSample, 2)
	output := NewBatcher(0, 0)(input)

	input <- ecg.RawSample{Value: 1}
	input <- ecg.RawSample{Value: 2}
	close(input)

	count := 0
	for b := range output {
		assert.Equal(t, 1, b.Len())
		count++
	}
	assert.Equal(t, 2, count)
}

// TestBatcher_GracefulShutdown tests that the batcher closes its output
// channel when the input channel is closed.
func TestBatcher_GracefulShutdown(t *testing.T) {
	input := make(chan ecg.RawSample)
	output := NewBatcher(10, 1)(input)

	close(input)

	select {
	case _, ok := <-output:
		assert.False(t, ok, "Output channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("Output channel was not closed within timeout")
	}
}
