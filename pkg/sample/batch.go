package sample

import (
	"log"
	"time"

	"github.com/itohio/goecg/pkg/ecg"
)

// Batch is a run of consecutive raw readings processed together.
type Batch struct {
	Start  time.Time // Arrival time of the first reading
	End    time.Time // Arrival time of the last reading
	Values []float32 // Raw ADC counts
}

// Len returns the number of readings in the batch.
func (b Batch) Len() int {
	return len(b.Values)
}

// Batcher is a function type that groups a RawSample channel into batches.
type Batcher func(in <-chan ecg.RawSample) <-chan Batch

// NewBatcher creates a batcher emitting batches of size readings. A partial
// batch is flushed when the input closes.
func NewBatcher(size int, bufSize int) Batcher {
	if size <= 0 {
		size = 1
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan ecg.RawSample) <-chan Batch {
		out := make(chan Batch, bufSize)

		go func() {
			defer close(out)

			batch := Batch{Values: make([]float32, 0, size)}
			emit := func() {
				select {
				case out <- batch:
				case <-time.After(time.Second):
					log.Printf("Batcher output channel full, dropping %d samples", batch.Len())
				}
				batch = Batch{Values: make([]float32, 0, size)}
			}

			for raw := range in {
				if batch.Len() == 0 {
					batch.Start = raw.Timestamp
				}
				batch.End = raw.Timestamp
				batch.Values = append(batch.Values, float32(raw.Value))

				if batch.Len() >= size {
					emit()
				}
			}

			if batch.Len() > 0 {
				emit()
			}
		}()

		return out
	}
}
