//go:generate tinygo flash -target=arduino

package main

import (
	"machine"

	"github.com/itohio/goecg/pkg/daq"
)

var (
	uart = machine.UART0
	adc  = machine.ADC{Pin: PIN_ECG}

	cell     daq.Cell
	sampler  = daq.NewSampler(&adc, ADC_RESOLUTION, &cell)
	reporter = daq.NewReporter(uart, &cell)
)

func main() {
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	PIN_ECG.Configure(machine.PinConfig{Mode: machine.PinInput})
	machine.InitADC()
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	compare, err := daq.CompareThreshold(machine.CPUFrequency(), TIMER_PRESCALER, SAMPLE_RATE_HZ)
	if err != nil {
		panic(err)
	}
	clockSelect, err := daq.Timer1ClockSelect(TIMER_PRESCALER)
	if err != nil {
		panic(err)
	}
	setupTimer(compare, clockSelect)

	reporter.Run()
}
