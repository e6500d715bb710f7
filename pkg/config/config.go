package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/itohio/goecg/pkg/daq"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Signal  SignalConfig  `yaml:"signal"`
	Batch   BatchConfig   `yaml:"batch"`
	Filter  FilterConfig  `yaml:"filter"`
	Window  WindowConfig  `yaml:"window"`
	Peak    PeakConfig    `yaml:"peak"`
	Plot    PlotConfig    `yaml:"plot"`
	Monitor MonitorConfig `yaml:"monitor"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string        `yaml:"port"`
	BaudRate int           `yaml:"baud_rate"`
	Settle   time.Duration `yaml:"settle"` // Wait after open while the board resets
}

// SignalConfig describes the acquisition on the board side.
type SignalConfig struct {
	SampleRate int    `yaml:"sample_rate"` // Hz
	BoardClock uint32 `yaml:"board_clock"` // Hz, used to check the rate is reachable by Timer1
	MaxValue   uint16 `yaml:"max_value"`   // Largest raw reading (1023 for 10-bit)
}

// BatchConfig groups samples before processing.
// At 500 Hz a batch of 100 is 200ms, which makes the plot visibly lag.
type BatchConfig struct {
	Size int `yaml:"size"`
}

// FilterConfig contains the baseline wander filter.
type FilterConfig struct {
	HighpassCutoff float32 `yaml:"highpass_cutoff"` // Hz, 0 disables
}

// WindowConfig contains filter window lengths in samples.
type WindowConfig struct {
	MovingAverage int `yaml:"moving_average"`
	Derivative    int `yaml:"derivative"`
	Integration   int `yaml:"integration"`
}

// PeakConfig contains peak detection parameters.
type PeakConfig struct {
	IntervalMS       int     `yaml:"interval_ms"`       // Refractory period between peaks
	Tau              float32 `yaml:"tau"`               // Threshold decay time constant (s)
	MinThreshold     int     `yaml:"min_threshold"`     // Threshold floor
	InitialThreshold int     `yaml:"initial_threshold"` // Threshold before the first peak
}

// PlotConfig contains display parameters.
type PlotConfig struct {
	BufferSize int `yaml:"buffer_size"` // Samples kept on screen
	MaxPoints  int `yaml:"max_points"`  // Points drawn per trace
}

// MonitorConfig contains the resource report interval.
type MonitorConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// MockConfig contains the emulated board parameters.
type MockConfig struct {
	HeartRate float32 `yaml:"heart_rate"` // BPM
	Amplitude float32 `yaml:"amplitude"`  // R wave height in ADC counts
	Baseline  float32 `yaml:"baseline"`   // ADC counts
	Noise     float32 `yaml:"noise"`      // Peak noise in ADC counts
	Wander    float32 `yaml:"wander"`     // Baseline wander amplitude in ADC counts
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // "COM3" on Windows
			BaudRate: 115200,
			Settle:   2 * time.Second,
		},
		Signal: SignalConfig{
			SampleRate: 500,
			BoardClock: 16_000_000,
			MaxValue:   1023,
		},
		Batch: BatchConfig{
			Size: 10,
		},
		Filter: FilterConfig{
			HighpassCutoff: 2.0,
		},
		Window: WindowConfig{
			MovingAverage: 8,
			Derivative:    8,
			Integration:   40,
		},
		Peak: PeakConfig{
			IntervalMS:       200,
			Tau:              1.30,
			MinThreshold:     1000,
			InitialThreshold: 2000,
		},
		Plot: PlotConfig{
			BufferSize: 2000,
			MaxPoints:  1000,
		},
		Monitor: MonitorConfig{
			Interval: time.Second,
		},
		Mock: MockConfig{
			HeartRate: 72,
			Amplitude: 300,
			Baseline:  512,
			Noise:     4,
			Wander:    20,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Signal.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d: %w", c.Signal.SampleRate, ErrInvalid)
	}
	if _, err := c.Signal.Timer(); err != nil {
		return fmt.Errorf("sample rate %d Hz: %w: %w", c.Signal.SampleRate, ErrInvalid, err)
	}
	if c.Batch.Size <= 0 {
		return fmt.Errorf("batch size %d: %w", c.Batch.Size, ErrInvalid)
	}
	if c.Window.MovingAverage <= 0 || c.Window.Integration <= 0 {
		return fmt.Errorf("window lengths %d/%d: %w", c.Window.MovingAverage, c.Window.Integration, ErrInvalid)
	}
	if c.Window.Derivative < 5 {
		return fmt.Errorf("derivative window %d, need at least 5: %w", c.Window.Derivative, ErrInvalid)
	}
	if c.Peak.Tau <= 0 {
		return fmt.Errorf("peak tau %v: %w", c.Peak.Tau, ErrInvalid)
	}
	if c.Plot.BufferSize <= 0 {
		return fmt.Errorf("plot buffer %d: %w", c.Plot.BufferSize, ErrInvalid)
	}
	return nil
}

// Timer returns the Timer1 setting that produces the sample rate on the board clock.
func (s SignalConfig) Timer() (daq.TimerSetting, error) {
	if s.SampleRate <= 0 {
		return daq.TimerSetting{}, fmt.Errorf("sample rate %d: %w", s.SampleRate, daq.ErrTimerRange)
	}
	return daq.SelectPrescaler(s.BoardClock, uint32(s.SampleRate), daq.Timer1Prescalers)
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Signal.SampleRate == 0 {
		c.Signal.SampleRate = def.Signal.SampleRate
	}
	if c.Signal.BoardClock == 0 {
		c.Signal.BoardClock = def.Signal.BoardClock
	}
	if c.Signal.MaxValue == 0 {
		c.Signal.MaxValue = def.Signal.MaxValue
	}

	if c.Batch.Size == 0 {
		c.Batch.Size = def.Batch.Size
	}

	if c.Window.MovingAverage == 0 {
		c.Window.MovingAverage = def.Window.MovingAverage
	}
	if c.Window.Derivative == 0 {
		c.Window.Derivative = def.Window.Derivative
	}
	if c.Window.Integration == 0 {
		c.Window.Integration = def.Window.Integration
	}

	if c.Peak.IntervalMS == 0 {
		c.Peak.IntervalMS = def.Peak.IntervalMS
	}
	if c.Peak.Tau == 0 {
		c.Peak.Tau = def.Peak.Tau
	}
	if c.Peak.MinThreshold == 0 {
		c.Peak.MinThreshold = def.Peak.MinThreshold
	}
	if c.Peak.InitialThreshold == 0 {
		c.Peak.InitialThreshold = def.Peak.InitialThreshold
	}

	if c.Plot.BufferSize == 0 {
		c.Plot.BufferSize = def.Plot.BufferSize
	}
	if c.Plot.MaxPoints == 0 {
		c.Plot.MaxPoints = def.Plot.MaxPoints
	}

	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = def.Monitor.Interval
	}

	if c.Mock.HeartRate == 0 {
		c.Mock.HeartRate = def.Mock.HeartRate
	}
	if c.Mock.Amplitude == 0 {
		c.Mock.Amplitude = def.Mock.Amplitude
	}
	if c.Mock.Baseline == 0 {
		c.Mock.Baseline = def.Mock.Baseline
	}
}
