package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiaryEntry_ParsesMeasurements(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"38.2", 38.2, true},
		{"37,5", 37.5, true},
		{" 36.9°C ", 36.9, true},
		{"95%", 95, true},
		{"", 0, false},
		{"febril", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"+Inf", 0, false},
		{"-Infinity", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d := DiaryEntry{Vitals: Vitals{Temperature: tt.raw, SpO2: tt.raw}}

			temp, ok := d.TemperatureValue()
			assert.Equal(t, tt.valid, ok)
			assert.InDelta(t, tt.want, temp, 0.0001)

			spo2, ok := d.SpO2Value()
			assert.Equal(t, tt.valid, ok)
			assert.InDelta(t, tt.want, spo2, 0.0001)
		})
	}
}
