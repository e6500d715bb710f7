package ecg

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/itohio/goecg/pkg/config"
	"github.com/itohio/goecg/pkg/daq"
)

// pollInterval is how long the emulated loop idles when no sample is ready.
const pollInterval = 100 * time.Microsecond

// Mock emulates the board in software. One goroutine plays the timer
// interrupt and another the polling loop, sharing a daq.Cell the way the
// firmware does, with a synthetic ECG as the analog input. The reporter
// writes through a link paced at the configured baud rate and the text is
// parsed exactly like a real serial stream.
type Mock struct {
	cfg      *config.Config
	rate     int
	baudRate int
	maxValue uint16

	samples   chan RawSample
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	wg        sync.WaitGroup

	cell  daq.Cell
	synth *Synth
	pipeR *io.PipeReader
	pipeW *io.PipeWriter
}

// NewMock creates a new emulated device instance.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}
	def := config.Default()

	rate := cfg.Signal.SampleRate
	if rate <= 0 {
		rate = def.Signal.SampleRate
	}
	baudRate := cfg.Serial.BaudRate
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	maxValue := cfg.Signal.MaxValue
	if maxValue == 0 {
		maxValue = MaxValue
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:      cfg,
		rate:     rate,
		baudRate: baudRate,
		maxValue: maxValue,
		samples:  make(chan RawSample, DefaultBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		synth:    NewSynth(&cfg.Mock, rate),
	}
}

// Connect starts the emulated board.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	if m.ctx.Err() != nil {
		m.ctx, m.cancel = context.WithCancel(context.Background())
		m.samples = make(chan RawSample, DefaultBufferSize)
		m.done = make(chan struct{})
	}

	m.pipeR, m.pipeW = io.Pipe()
	m.connected = true

	sampler := daq.NewSampler(m.synth, 10, &m.cell)
	reporter := daq.NewReporter(newLink(m.pipeW, m.baudRate), &m.cell)

	m.wg.Add(2)
	go m.tick(m.ctx, sampler)
	go m.report(m.ctx, reporter)
	go func(ctx context.Context, r io.Reader, out chan<- RawSample, done chan struct{}) {
		defer close(done)
		scanSamples(ctx, r, out, m.maxValue)
	}(m.ctx, m.pipeR, m.samples, m.done)

	return nil
}

// Close stops the emulated board and waits for its goroutines to finish.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.pipeW.Close()
	m.pipeR.Close()
	<-m.done
	m.wg.Wait()
	m.connected = false

	return nil
}

// Samples returns the channel for reading samples. Every Connect after a
// Close starts a new channel, so call it after Connect.
func (m *Mock) Samples() <-chan RawSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.samples
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Overruns returns how many emulated samples were overwritten before the
// polling loop sent them.
func (m *Mock) Overruns() uint32 {
	return m.cell.Overruns()
}

// tick plays the timer interrupt.
func (m *Mock) tick(ctx context.Context, sampler *daq.Sampler) {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(m.rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sampler.Tick()
		}
	}
}

// report plays the main loop. A line blocks for its transmission time, and
// ticks landing meanwhile overwrite the cell.
func (m *Mock) report(ctx context.Context, reporter *daq.Reporter) {
	defer m.wg.Done()

	for ctx.Err() == nil {
		if !reporter.Poll() {
			time.Sleep(pollInterval)
		}
	}
}

// link delays writes by the time a UART at baudRate needs to shift them
// out, 10 bits per byte for 8N1.
type link struct {
	w        io.Writer
	byteTime time.Duration
	next     time.Time
}

func newLink(w io.Writer, baudRate int) *link {
	return &link{w: w, byteTime: 10 * time.Second / time.Duration(baudRate)}
}

func (l *link) Write(p []byte) (int, error) {
	now := time.Now()
	if l.next.Before(now) {
		l.next = now
	}
	l.next = l.next.Add(time.Duration(len(p)) * l.byteTime)
	time.Sleep(time.Until(l.next))
	return l.w.Write(p)
}
