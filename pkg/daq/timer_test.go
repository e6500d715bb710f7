package daq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareThreshold(t *testing.T) {
	tests := []struct {
		name      string
		clock     uint32
		prescaler uint32
		freq      uint32
		want      uint16
		wantErr   bool
	}{
		{"uno 500Hz /8", 16_000_000, 8, 500, 3999, false},
		{"uno 500Hz /1", 16_000_000, 1, 500, 31999, false},
		{"uno 1kHz /64", 16_000_000, 64, 1000, 249, false},
		{"8MHz 500Hz /8", 8_000_000, 8, 500, 1999, false},
		{"too slow for 16 bits", 16_000_000, 1, 100, 0, true},
		{"not exact", 16_000_000, 1024, 500, 0, true},
		{"zero prescaler", 16_000_000, 0, 500, 0, true},
		{"zero frequency", 16_000_000, 8, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareThreshold(tt.clock, tt.prescaler, tt.freq)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTimerRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectPrescaler(t *testing.T) {
	setting, err := SelectPrescaler(16_000_000, 500, Timer1Prescalers)
	require.NoError(t, err)
	assert.Equal(t, TimerSetting{Prescaler: 1, Compare: 31999}, setting)
	assert.InDelta(t, 500.0, setting.Frequency(16_000_000), 1e-9)

	setting, err = SelectPrescaler(16_000_000, 10, Timer1Prescalers)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), setting.Prescaler)
	assert.Equal(t, uint16(24999), setting.Compare)

	_, err = SelectPrescaler(16_000_000, 7, Timer1Prescalers)
	assert.ErrorIs(t, err, ErrTimerRange)
}

func TestTimerSetting_Frequency(t *testing.T) {
	s := TimerSetting{Prescaler: 8, Compare: 3999}
	assert.InDelta(t, 500.0, s.Frequency(16_000_000), 1e-9)
}

func TestTimer1ClockSelect(t *testing.T) {
	tests := []struct {
		prescaler uint32
		want      uint8
	}{
		{1, 0b001},
		{8, 0b010},
		{64, 0b011},
		{256, 0b100},
		{1024, 0b101},
	}
	for _, tt := range tests {
		got, err := Timer1ClockSelect(tt.prescaler)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "prescaler %d", tt.prescaler)
	}

	_, err := Timer1ClockSelect(32)
	assert.ErrorIs(t, err, ErrTimerRange)
}
