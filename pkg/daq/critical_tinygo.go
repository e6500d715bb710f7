//go:build tinygo

package daq

import "runtime/interrupt"

// critical masks interrupts for the duration of a cell access.
type critical struct{}

func (critical) enter() interrupt.State {
	return interrupt.Disable()
}

func (critical) exit(state interrupt.State) {
	interrupt.Restore(state)
}
