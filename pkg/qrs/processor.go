package qrs

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/itohio/goecg/pkg/config"
	"github.com/itohio/goecg/pkg/sample"
)

// Update is delivered to callbacks after every processed batch.
type Update struct {
	Batch  sample.Batch
	Result Result
}

// Processor runs batches through a Pipeline and a BPM tracker and notifies
// registered callbacks.
type Processor struct {
	pipeline *Pipeline
	bpm      *BPM

	callbacks []func(Update)
	cbMu      sync.RWMutex

	// Processing time, summed over enough batches to cover ~100 samples
	timingWindow int
	timingCalls  int
	timingSum    time.Duration
	procTime     atomic.Int64

	shutdown atomic.Bool
}

// NewProcessor creates a Processor from the configuration.
func NewProcessor(cfg *config.Config) *Processor {
	window := 1
	if cfg.Batch.Size > 0 {
		window = max(1, 100/cfg.Batch.Size)
	}
	return &Processor{
		pipeline:     NewPipeline(cfg),
		bpm:          NewBPM(cfg.Signal.SampleRate),
		timingWindow: window,
	}
}

// ProcessBatches processes batches until the input channel closes, then
// marks the processor as shut down so no further callbacks fire.
func (p *Processor) ProcessBatches(input <-chan sample.Batch) {
	for b := range input {
		p.Process(b)
	}
	p.shutdown.Store(true)
}

// Process handles a single batch and returns its result.
func (p *Processor) Process(b sample.Batch) Result {
	start := time.Now()
	res := p.pipeline.Process(b.Values)
	res.BPM = p.bpm.Update(res.Peaks)
	p.recordTiming(time.Since(start))

	if !p.shutdown.Load() {
		p.notify(Update{Batch: b, Result: res})
	}
	return res
}

// OnUpdate registers a callback for processed batches.
func (p *Processor) OnUpdate(cb func(Update)) {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	p.callbacks = append(p.callbacks, cb)
}

// ClearCallbacks removes all registered callbacks.
func (p *Processor) ClearCallbacks() {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	p.callbacks = nil
}

// ProcTime returns the processing time of the last timing window, or zero
// before the first window completes.
func (p *Processor) ProcTime() time.Duration {
	return time.Duration(p.procTime.Load())
}

// BPM returns the current heart rate.
func (p *Processor) BPM() int {
	return p.bpm.Value()
}

func (p *Processor) recordTiming(d time.Duration) {
	p.timingSum += d
	p.timingCalls++
	if p.timingCalls >= p.timingWindow {
		p.procTime.Store(int64(p.timingSum))
		p.timingCalls = 0
		p.timingSum = 0
	}
}

func (p *Processor) notify(u Update) {
	p.cbMu.RLock()
	callbacks := p.callbacks
	p.cbMu.RUnlock()

	for _, cb := range callbacks {
		cb(u)
	}
}
