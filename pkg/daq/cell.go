// Package daq holds the board-independent part of the acquisition firmware:
// the sample cell shared between the timer interrupt and the main loop, the
// tick handler that fills it and the loop-side reporter that drains it.
package daq

// Cell is a single-producer, single-consumer slot of capacity one.
// The producer runs in interrupt context and overwrites any sample the
// consumer has not taken yet.
type Cell struct {
	cs       critical
	value    uint16
	ready    bool
	overruns uint32
}

// Store publishes v. A pending sample is replaced.
func (c *Cell) Store(v uint16) {
	state := c.cs.enter()
	if c.ready {
		c.overruns++
	}
	c.value = v
	c.ready = true
	c.cs.exit(state)
}

// Take clears the ready flag and returns the value it guarded.
// ok is false when nothing was stored since the last Take.
func (c *Cell) Take() (v uint16, ok bool) {
	state := c.cs.enter()
	if c.ready {
		c.ready = false
		v, ok = c.value, true
	}
	c.cs.exit(state)
	return v, ok
}

// Pending reports whether a sample is waiting to be taken.
func (c *Cell) Pending() bool {
	state := c.cs.enter()
	ready := c.ready
	c.cs.exit(state)
	return ready
}

// Overruns returns how many samples were overwritten before being taken.
func (c *Cell) Overruns() uint32 {
	state := c.cs.enter()
	n := c.overruns
	c.cs.exit(state)
	return n
}
