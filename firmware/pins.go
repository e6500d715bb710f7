package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_RATE_HZ   = 500 // Timer1 compare-match interrupt rate
	TIMER_PRESCALER  = 8   // Timer1 clock divider (CS11)
	ADC_RESOLUTION   = 10  // ATmega328P converter width (0-1023)
	ADC_REFERENCE_MV = 5000

	// ADC pin
	PIN_ECG = machine.ADC0 // A0

	// Serial configuration
	// Format "<value>\r\n", at most "1023\r\n" = 6 bytes per line.
	// 500 lines/sec * 6 bytes = 3,000 bytes/sec; 8N1 needs 30,000 baud.
	// 115200 leaves ~3.8x headroom.
	UART_BAUD_RATE = 115200
)
