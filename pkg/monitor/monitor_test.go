package monitor

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTimer time.Duration

func (f fixedTimer) ProcTime() time.Duration { return time.Duration(f) }

// syncBuffer guards a bytes.Buffer shared with the monitor goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStats_Row(t *testing.T) {
	ts := time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC)

	row := Stats{Time: ts, CPUPercent: 12.34, RSSMB: 48.31, Goroutines: 7, ProcTime: 1500 * time.Microsecond}.Row()
	assert.True(t, strings.HasPrefix(row, "13:04:05"))
	assert.Contains(t, row, "12.3")
	assert.Contains(t, row, "48.3")
	assert.Contains(t, row, "1.500 ms")
	assert.Contains(t, row, "7")

	row = Stats{Time: ts}.Row()
	assert.Contains(t, row, "Waiting...")
}

func TestHeader_AlignsWithRow(t *testing.T) {
	row := Stats{Time: time.Now(), ProcTime: time.Millisecond}.Row()
	assert.Equal(t, strings.Count(Header(), "|"), strings.Count(row, "|"))
}

func TestMonitor_Collect(t *testing.T) {
	m := New(&bytes.Buffer{}, time.Second, fixedTimer(2*time.Millisecond))
	s := m.Collect(time.Now())

	assert.Positive(t, s.Goroutines)
	assert.Positive(t, s.RSSMB)
	assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
	assert.Equal(t, 2*time.Millisecond, s.ProcTime)
}

func TestMonitor_NilTimer(t *testing.T) {
	m := New(nil, 0, nil)
	assert.Equal(t, time.Second, m.interval)
	assert.Zero(t, m.Collect(time.Now()).ProcTime)
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	var out syncBuffer
	m := New(&out, 10*time.Millisecond, fixedTimer(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "1.000 ms") >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Contains(t, out.String(), "[Monitor] Dashboard active")
	assert.Contains(t, out.String(), "Proc Time (100pts)")
	assert.Contains(t, out.String(), "CPU %")
	assert.Contains(t, out.String(), "RAM MB")
}
