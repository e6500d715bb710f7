// Package monitor prints a periodic resource and processing-time report.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Timer reports how long the last processing window took.
type Timer interface {
	ProcTime() time.Duration
}

// Stats is one report row.
type Stats struct {
	Time       time.Time
	CPUPercent float64 // Since the previous Collect
	RSSMB      float64
	Goroutines int
	ProcTime   time.Duration
}

// Monitor samples process statistics on an interval.
type Monitor struct {
	interval time.Duration
	timer    Timer
	logger   *log.Logger
	proc     *process.Process
}

// New creates a monitor writing to w (stdout when nil).
func New(w io.Writer, interval time.Duration, timer Timer) *Monitor {
	if w == nil {
		w = os.Stdout
	}
	if interval <= 0 {
		interval = time.Second
	}
	m := &Monitor{
		interval: interval,
		timer:    timer,
		logger:   log.New(w, "", 0),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.logger.Printf("[Monitor] Error: %v", err)
		return m
	}
	m.proc = proc
	// The first call only sets the CPU baseline
	if _, err := proc.Percent(0); err != nil {
		m.logger.Printf("[Monitor] Error: %v", err)
	}
	return m
}

// Run prints a header and then one row per interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	header := Header()
	m.logger.Printf("[Monitor] Dashboard active (PID: %d)", os.Getpid())
	m.logger.Print(header)
	m.logger.Print(strings.Repeat("-", len(header)))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.logger.Print(m.Collect(now).Row())
		}
	}
}

// Collect gathers a Stats snapshot. Failed process queries leave their
// columns at zero.
func (m *Monitor) Collect(now time.Time) Stats {
	s := Stats{
		Time:       now,
		Goroutines: runtime.NumGoroutine(),
	}

	if m.proc != nil {
		if cpu, err := m.proc.Percent(0); err == nil {
			s.CPUPercent = cpu
		} else {
			m.logger.Printf("[Monitor] Error: %v", err)
		}
		if mem, err := m.proc.MemoryInfo(); err == nil {
			s.RSSMB = float64(mem.RSS) / 1024 / 1024
		} else {
			m.logger.Printf("[Monitor] Error: %v", err)
		}
	}

	if m.timer != nil {
		s.ProcTime = m.timer.ProcTime()
	}
	return s
}

// Header returns the column titles matching Row.
func Header() string {
	return fmt.Sprintf("%-10s | %-8s | %-8s | %-10s | %-20s", "Time", "CPU %", "RAM MB", "Goroutines", "Proc Time (100pts)")
}

// Row formats the stats as a table row.
func (s Stats) Row() string {
	proc := "Waiting..."
	if s.ProcTime > 0 {
		proc = fmt.Sprintf("%.3f ms", float64(s.ProcTime)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%-10s | %-8.1f | %-8.1f | %-10d | %-20s", s.Time.Format("15:04:05"), s.CPUPercent, s.RSSMB, s.Goroutines, proc)
}
