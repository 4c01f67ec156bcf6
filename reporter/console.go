package reporter

import (
	"fmt"
	"io"
	"time"

	"telconv/internal/timeutil"
)

// Console renders progress as a single rewritten terminal line and status
// messages as prefixed lines.
type Console struct {
	w     io.Writer
	start time.Time
	now   func() time.Time
	open  bool // a progress line is pending its newline
}

// NewConsole creates a Console writing to w. Rates and ETAs are measured
// from the moment it is created.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, start: time.Now(), now: time.Now}
}

// Progress rewrites the progress line.
func (c *Console) Progress(completed, total int) {
	elapsed := c.now().Sub(c.start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(completed) / elapsed.Seconds()
	}
	eta := timeutil.ETA(elapsed, completed, total)

	fmt.Fprintf(c.w, "\r  file=%d/%d rate=%.1f/s elapsed=%s eta=%s   ",
		completed, total, rate, timeutil.FormatDuration(elapsed), timeutil.FormatDuration(eta))
	c.open = completed < total
	if !c.open {
		fmt.Fprintln(c.w)
	}
}

// Status prints message on its own line.
func (c *Console) Status(message string, severity Severity) {
	if c.open {
		fmt.Fprintln(c.w)
		c.open = false
	}
	fmt.Fprintf(c.w, "%s %s\n", severityIcon(severity), message)
}

func severityIcon(s Severity) string {
	switch s {
	case SeveritySuccess:
		return "✅"
	case SeverityWarning:
		return "⚠️ "
	case SeverityDanger:
		return "❌"
	default:
		return "⏳"
	}
}
