// Package util holds small display helpers shared by the binaries.
package util //nolint:revive // generic name kept for cross-binary formatting helpers

import "time"

// FormatRunDuration renders how long a run took, rounded to whole seconds once
// it passes a second. It returns "-" when either bound is missing or the end
// precedes the start.
func FormatRunDuration(start, end *time.Time) string {
	if start == nil || end == nil {
		return "-"
	}
	d := end.Sub(*start)
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Truncate(time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
