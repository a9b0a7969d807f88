package data

import "time"

// TimeProvider supplies the timestamps repositories write.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using the system clock.
type RealTimeProvider struct{}

// Now returns the current system time in UTC.
func (RealTimeProvider) Now() time.Time { return time.Now().UTC() }

// FixedTimeProvider returns a settable instant, for tests.
type FixedTimeProvider struct {
	fixedTime time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t.UTC()}
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time { return f.fixedTime }

// AddTime advances the fixed time by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) { f.fixedTime = f.fixedTime.Add(d) }
