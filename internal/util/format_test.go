package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRunDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := start.Add(d)
		return &v
	}

	tests := []struct {
		name     string
		from, to *time.Time
		want     string
	}{
		{"missing start", nil, at(time.Second), "-"},
		{"missing end", &start, nil, "-"},
		{"end before start", &start, at(-time.Minute), "-"},
		{"zero", &start, &start, "-"},
		{"sub-second", &start, at(1234567 * time.Microsecond / 10), "123ms"},
		{"minutes", &start, at(3*time.Minute + 20*time.Second + 600*time.Millisecond), "3m21s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRunDuration(tt.from, tt.to))
		})
	}
}
