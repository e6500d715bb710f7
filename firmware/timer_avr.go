//go:build avr

package main

import (
	"device/avr"
	"runtime/interrupt"
)

// setupTimer puts Timer1 in CTC mode with the clock source clockSelect
// (the CS12:CS10 field) and enables the compare A interrupt. Interrupts
// stay masked until every register is set.
func setupTimer(compare uint16, clockSelect uint8) {
	state := interrupt.Disable()

	avr.TCCR1A.Set(0)
	avr.TCCR1B.Set(0)
	avr.TCNT1H.Set(0)
	avr.TCNT1L.Set(0)

	// 16-bit registers take the high byte first.
	avr.OCR1AH.Set(uint8(compare >> 8))
	avr.OCR1AL.Set(uint8(compare))

	avr.TCCR1B.SetBits(avr.TCCR1B_WGM12)
	if clockSelect&0b001 != 0 {
		avr.TCCR1B.SetBits(avr.TCCR1B_CS10)
	}
	if clockSelect&0b010 != 0 {
		avr.TCCR1B.SetBits(avr.TCCR1B_CS11)
	}
	if clockSelect&0b100 != 0 {
		avr.TCCR1B.SetBits(avr.TCCR1B_CS12)
	}
	avr.TIMSK1.SetBits(avr.TIMSK1_OCIE1A)

	interrupt.New(avr.IRQ_TIMER1_COMPA, handleTimer)

	interrupt.Restore(state)
}

func handleTimer(interrupt.Interrupt) {
	sampler.Tick()
}
