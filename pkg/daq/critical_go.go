//go:build !tinygo

package daq

import "sync"

// critical serializes cell access between goroutines when there are no
// interrupts to mask (host builds, tests and the emulated device).
type critical struct {
	mu sync.Mutex
}

func (c *critical) enter() uintptr {
	c.mu.Lock()
	return 0
}

func (c *critical) exit(uintptr) {
	c.mu.Unlock()
}
