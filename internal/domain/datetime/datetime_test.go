package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInstant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wc   WallClock
		tz   string
		want time.Time
	}{
		{
			name: "afternoon in utc",
			wc:   WallClock{Date: "2024-05-01", Time: "01:30", Period: PM},
			tz:   "UTC",
			want: time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC),
		},
		{
			name: "midnight is 12 AM",
			wc:   WallClock{Date: "2024-05-01", Time: "12:00", Period: AM},
			tz:   "UTC",
			want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "noon is 12 PM",
			wc:   WallClock{Date: "2024-05-01", Time: "12:15", Period: "pm"},
			tz:   "UTC",
			want: time.Date(2024, 5, 1, 12, 15, 0, 0, time.UTC),
		},
		{
			name: "summer time offset applied",
			wc:   WallClock{Date: "2024-07-01", Time: "09:00", Period: AM},
			tz:   "Europe/London",
			want: time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "winter time offset applied",
			wc:   WallClock{Date: "2024-01-15", Time: "09:00", Period: AM},
			tz:   "America/New_York",
			want: time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC),
		},
		{
			name: "single digit hour",
			wc:   WallClock{Date: "2024-05-01", Time: "9:30", Period: PM},
			tz:   "UTC",
			want: time.Date(2024, 5, 1, 21, 30, 0, 0, time.UTC),
		},
		{
			name: "padded morning hour",
			wc:   WallClock{Date: "2024-05-01", Time: "09:30", Period: AM},
			tz:   "UTC",
			want: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToInstant(tt.wc, tt.tz)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got.UTC())
		})
	}
}

func TestToInstant_Invalid(t *testing.T) {
	t.Parallel()

	valid := WallClock{Date: "2024-05-01", Time: "01:30", Period: PM}

	tests := []struct {
		name string
		wc   WallClock
		tz   string
	}{
		{"empty zone", valid, ""},
		{"unknown zone", valid, "Mars/Olympus"},
		{"bad date", WallClock{Date: "2024-13-01", Time: "01:30", Period: PM}, "UTC"},
		{"bad time", WallClock{Date: "2024-05-01", Time: "25:00", Period: PM}, "UTC"},
		{"hour zero", WallClock{Date: "2024-05-01", Time: "00:30", Period: AM}, "UTC"},
		{"hour thirteen", WallClock{Date: "2024-05-01", Time: "13:00", Period: PM}, "UTC"},
		{"bad period", WallClock{Date: "2024-05-01", Time: "01:30", Period: "XM"}, "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ToInstant(tt.wc, tt.tz)
			assert.Error(t, err)
		})
	}
}

func TestFromInstant(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, 7, 1, 23, 5, 0, 0, time.UTC)

	wc, err := FromInstant(instant, "Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, WallClock{Date: "2024-07-02", Time: "01:05", Period: AM}, wc)

	wc, err = FromInstant(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), "UTC")
	require.NoError(t, err)
	assert.Equal(t, WallClock{Date: "2024-07-01", Time: "12:00", Period: PM}, wc)

	_, err = FromInstant(instant, "Nowhere/Special")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	zones := []string{"UTC", "Europe/London", "Asia/Kolkata", "America/Los_Angeles", "Australia/Lord_Howe"}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, tz := range zones {
		for h := 0; h < 24*60; h += 7 {
			instant := start.Add(time.Duration(h) * time.Hour)
			wc, err := FromInstant(instant, tz)
			require.NoError(t, err)
			back, err := ToInstant(wc, tz)
			require.NoError(t, err)
			// Ambiguous fall-back hours may resolve to the other offset.
			diff := back.Sub(instant)
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, time.Hour, "zone %s instant %s", tz, instant)
		}
	}
}

func TestValidZone(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidZone("Europe/Paris"))
	assert.True(t, ValidZone("UTC"))
	assert.False(t, ValidZone(""))
	assert.False(t, ValidZone("Not/AZone"))
}
