// Package timeutil provides time formatting utilities for batch reports.
package timeutil

import (
	"fmt"
	"time"
)

// FormatElapsed renders a wall-clock duration in seconds for humans.
//
// Durations under a minute keep one decimal; longer ones are shown as
// whole minutes and seconds.
//
// Example:
//
//	FormatElapsed(4.23)   // "4.2s"
//	FormatElapsed(59.94)  // "59.9s"
//	FormatElapsed(187.6)  // "3m 7s"
func FormatElapsed(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm %ds", minutes, secs)
}

// FormatDuration is FormatElapsed for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatElapsed(d.Seconds())
}

// ETA estimates the remaining time from the elapsed time and completed
// count. It returns 0 when nothing has completed yet.
func ETA(elapsed time.Duration, completed, total int) time.Duration {
	if completed <= 0 || completed >= total {
		return 0
	}
	perItem := elapsed / time.Duration(completed)
	return perItem * time.Duration(total-completed)
}
