package ecg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	// DefaultBaudRate matches the firmware UART.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 1000
	// MaxValue is the largest reading of the 10-bit converter.
	MaxValue = 1023
)

// ErrAlreadyConnected is returned by Connect on an open device.
var ErrAlreadyConnected = errors.New("already connected")

// RawSample is one reading reported by the board.
type RawSample struct {
	Timestamp time.Time // Host arrival time
	Value     uint16    // 10-bit ADC reading (0-1023)
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the ECG board.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	settle   time.Duration
	maxValue uint16

	conn      serial.Port
	samples   chan RawSample
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		maxValue: MaxValue,
		samples:  make(chan RawSample, bufSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// WithSettle sets how long Connect waits after opening the port. Opening
// the port resets an Arduino Uno, which then runs its bootloader.
func (d *Serial) WithSettle(settle time.Duration) *Serial {
	d.settle = settle
	return d
}

// WithMaxValue sets the largest reading accepted from the board. Lines
// above it are logged and skipped.
func (d *Serial) WithMaxValue(v uint16) *Serial {
	if v > 0 {
		d.maxValue = v
	}
	return d
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil {
		result := make([]Port, 0, len(details))
		for _, p := range details {
			desc := p.Name
			if p.IsUSB {
				desc = fmt.Sprintf("%s %s:%s", p.Product, p.VID, p.PID)
			}
			result = append(result, Port{Name: p.Name, Description: strings.TrimSpace(desc)})
		}
		return result, nil
	}

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(names))
	for _, name := range names {
		result = append(result, Port{Name: name, Description: name})
	}
	return result, nil
}

// Connect opens the serial port and starts reading samples.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	// A closed session leaves a cancelled context and closed channels behind
	if d.ctx.Err() != nil {
		d.ctx, d.cancel = context.WithCancel(context.Background())
		d.samples = make(chan RawSample, d.bufSize)
		d.done = make(chan struct{})
	}

	if d.settle > 0 {
		time.Sleep(d.settle)
	}
	if err := port.ResetInputBuffer(); err != nil {
		log.Printf("[Serial] Failed to flush %s: %v", d.port, err)
	}

	d.conn = port
	d.connected = true
	log.Printf("[Serial] Listening on %s...", d.port)

	go func(ctx context.Context, out chan<- RawSample, done chan struct{}) {
		defer close(done)
		scanSamples(ctx, port, out, d.maxValue)
	}(d.ctx, d.samples, d.done)

	return nil
}

// Close closes the port and waits for the reader to stop. The samples
// channel is closed once the reader has exited.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	var err error
	if d.conn != nil {
		if err = d.conn.Close(); err != nil {
			err = fmt.Errorf("failed to close serial port %s: %w", d.port, err)
		}
		d.conn = nil
	}

	<-d.done
	d.connected = false

	return err
}

// Samples returns the channel for reading samples. Every Connect after a
// Close starts a new channel, so call it after Connect.
func (d *Serial) Samples() <-chan RawSample {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.samples
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// scanSamples reads lines from r, parses them and forwards them to out.
// Readings above maxValue are skipped. It closes out when r is exhausted
// or ctx is cancelled.
func scanSamples(ctx context.Context, r io.Reader, out chan<- RawSample, maxValue uint16) {
	defer close(out)
	defer func() {
		if p := recover(); p != nil {
			log.Printf("Panic in scanSamples: %v", p)
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		value, err := parseLine(line, maxValue)
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}

		sample := RawSample{Timestamp: time.Now(), Value: value}

		// Non-blocking: a slow consumer loses samples, like the board does
		select {
		case out <- sample:
		case <-ctx.Done():
			return
		default:
			log.Printf("Samples channel full, dropping sample")
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		log.Printf("Error reading samples: %v", err)
	}
}

// ParseLine parses one board line into a raw reading.
// Format: decimal integer, optionally followed by "\r".
// Example: 512
func ParseLine(line string) (uint16, error) {
	return parseLine(line, MaxValue)
}

func parseLine(line string, maxValue uint16) (uint16, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, fmt.Errorf("empty line")
	}

	value, err := strconv.ParseUint(line, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid reading: %w", err)
	}
	if value > uint64(maxValue) {
		return 0, fmt.Errorf("reading out of range: %d (max %d)", value, maxValue)
	}

	return uint16(value), nil
}
