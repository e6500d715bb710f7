package daq

import (
	"errors"
	"fmt"
)

// ErrTimerRange is returned when a tick frequency cannot be produced exactly
// by a 16-bit compare-match timer.
var ErrTimerRange = errors.New("timer setting out of range")

// Timer1Prescalers are the clock dividers of the ATmega328P 16-bit timer.
var Timer1Prescalers = []uint32{1, 8, 64, 256, 1024}

// TimerSetting is a prescaler and compare value for clear-on-compare mode.
type TimerSetting struct {
	Prescaler uint32
	Compare   uint16
}

// Frequency returns the interrupt rate this setting produces at clockHz.
func (t TimerSetting) Frequency(clockHz uint32) float64 {
	return float64(clockHz) / (float64(t.Prescaler) * (float64(t.Compare) + 1))
}

// CompareThreshold returns clock/(prescaler*freq)-1, the compare register
// value that fires at freqHz.
func CompareThreshold(clockHz, prescaler, freqHz uint32) (uint16, error) {
	if prescaler == 0 || freqHz == 0 {
		return 0, fmt.Errorf("prescaler %d, frequency %d Hz: %w", prescaler, freqHz, ErrTimerRange)
	}
	div := uint64(prescaler) * uint64(freqHz)
	if uint64(clockHz)%div != 0 {
		return 0, fmt.Errorf("%d Hz is not reachable from %d Hz with prescaler %d: %w", freqHz, clockHz, prescaler, ErrTimerRange)
	}
	ticks := uint64(clockHz) / div
	if ticks == 0 || ticks-1 > 0xFFFF {
		return 0, fmt.Errorf("compare value %d does not fit 16 bits: %w", int64(ticks)-1, ErrTimerRange)
	}
	return uint16(ticks - 1), nil
}

// SelectPrescaler picks the smallest prescaler from options that reaches
// freqHz exactly. Options must be sorted ascending.
func SelectPrescaler(clockHz, freqHz uint32, options []uint32) (TimerSetting, error) {
	for _, p := range options {
		cmp, err := CompareThreshold(clockHz, p, freqHz)
		if err != nil {
			continue
		}
		return TimerSetting{Prescaler: p, Compare: cmp}, nil
	}
	return TimerSetting{}, fmt.Errorf("no prescaler for %d Hz at %d Hz clock: %w", freqHz, clockHz, ErrTimerRange)
}

// Timer1ClockSelect returns the CS12:CS10 field of TCCR1B that selects
// prescaler as the Timer1 clock source.
func Timer1ClockSelect(prescaler uint32) (uint8, error) {
	for i, p := range Timer1Prescalers {
		if p == prescaler {
			return uint8(i + 1), nil
		}
	}
	return 0, fmt.Errorf("prescaler %d is not available on Timer1: %w", prescaler, ErrTimerRange)
}
