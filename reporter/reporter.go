// Package reporter is the narrow bridge between the conversion pipeline and
// whatever presents it (a CLI line, a GUI progress bar).
//
// The pipeline only calls out through Reporter. Marshaling those calls onto
// a UI thread is the presenter's job.
package reporter

import "sync"

// Severity classifies a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityDanger
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// Reporter receives incremental progress and terminal status messages.
type Reporter interface {
	// Progress is called once per completed job with the cumulative number
	// of completed jobs and the batch size.
	Progress(completed, total int)

	// Status reports a human-readable message.
	Status(message string, severity Severity)
}

// NullReporter discards all updates.
type NullReporter struct{}

// Progress does nothing.
func (NullReporter) Progress(int, int) {}

// Status does nothing.
func (NullReporter) Status(string, Severity) {}

// Funcs adapts a pair of callbacks to Reporter. Nil callbacks are skipped.
type Funcs struct {
	OnProgress func(completed, total int)
	OnStatus   func(message string, severity Severity)
}

// Progress calls OnProgress if set.
func (f Funcs) Progress(completed, total int) {
	if f.OnProgress != nil {
		f.OnProgress(completed, total)
	}
}

// Status calls OnStatus if set.
func (f Funcs) Status(message string, severity Severity) {
	if f.OnStatus != nil {
		f.OnStatus(message, severity)
	}
}

// synchronized serializes calls into the wrapped Reporter and keeps progress
// strictly increasing.
type synchronized struct {
	mu   sync.Mutex
	next Reporter
	last int
}

// Synchronized wraps r so it may be called from many goroutines. Progress
// counts that do not exceed the last delivered count are dropped. A nil r
// yields a NullReporter.
func Synchronized(r Reporter) Reporter {
	if r == nil {
		r = NullReporter{}
	}
	if s, ok := r.(*synchronized); ok {
		return s
	}
	return &synchronized{next: r}
}

func (s *synchronized) Progress(completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if completed <= s.last {
		return
	}
	s.last = completed
	s.next.Progress(completed, total)
}

func (s *synchronized) Status(message string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.Status(message, severity)
}
