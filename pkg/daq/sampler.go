package daq

// ADC is a single analog channel. Get returns the reading left-aligned to
// 16 bits, which is what the TinyGo machine package reports on every target.
type ADC interface {
	Get() uint16
}

// Sampler is the timer tick handler: one conversion per tick into a Cell.
type Sampler struct {
	adc   ADC
	shift uint8
	cell  *Cell
}

// NewSampler returns a Sampler that reports readings at the given converter
// resolution (10 for the ATmega328P, 12 for SAMD21/RP2040).
func NewSampler(adc ADC, resolution uint8, cell *Cell) *Sampler {
	if resolution == 0 || resolution > 16 {
		resolution = 16
	}
	return &Sampler{
		adc:   adc,
		shift: 16 - resolution,
		cell:  cell,
	}
}

// Tick captures one reading. Safe to call from interrupt context: it does
// not allocate and does not block.
func (s *Sampler) Tick() {
	s.cell.Store(s.adc.Get() >> s.shift)
}
