package reporter

import (
	"sync"
	"sync/atomic"
	"testing"
)

// recorder relies on the caller for serialization; overlapping calls are
// detected and flagged.
type recorder struct {
	progress []int
	statuses []Severity
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (r *recorder) Progress(completed, total int) {
	if r.inFlight.Add(1) > 1 {
		r.overlap.Store(true)
	}
	r.progress = append(r.progress, completed)
	r.inFlight.Add(-1)
}

func (r *recorder) Status(_ string, severity Severity) {
	if r.inFlight.Add(1) > 1 {
		r.overlap.Store(true)
	}
	r.statuses = append(r.statuses, severity)
	r.inFlight.Add(-1)
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityInfo, "info"},
		{SeveritySuccess, "success"},
		{SeverityWarning, "warning"},
		{SeverityDanger, "danger"},
		{Severity(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.expected {
				t.Errorf("String() = %s; want %s", got, tt.expected)
			}
		})
	}
}

func TestFuncs(t *testing.T) {
	var gotCompleted, gotTotal int
	var gotMessage string
	f := Funcs{
		OnProgress: func(c, n int) { gotCompleted, gotTotal = c, n },
		OnStatus:   func(m string, _ Severity) { gotMessage = m },
	}

	f.Progress(2, 3)
	f.Status("done", SeveritySuccess)

	if gotCompleted != 2 || gotTotal != 3 {
		t.Errorf("progress = %d/%d; want 2/3", gotCompleted, gotTotal)
	}
	if gotMessage != "done" {
		t.Errorf("message = %q", gotMessage)
	}

	// Nil callbacks must not panic.
	Funcs{}.Progress(1, 1)
	Funcs{}.Status("x", SeverityInfo)
}

func TestSynchronized_DropsNonIncreasing(t *testing.T) {
	rec := &recorder{}
	s := Synchronized(rec)

	for _, c := range []int{1, 2, 2, 1, 3} {
		s.Progress(c, 3)
	}

	want := []int{1, 2, 3}
	if len(rec.progress) != len(want) {
		t.Fatalf("progress = %v; want %v", rec.progress, want)
	}
	for i := range want {
		if rec.progress[i] != want[i] {
			t.Errorf("progress = %v; want %v", rec.progress, want)
			break
		}
	}
}

func TestSynchronized_ConcurrentCallers(t *testing.T) {
	rec := &recorder{}
	s := Synchronized(rec)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Progress(n, 100)
			s.Status("tick", SeverityInfo)
		}(i)
	}
	wg.Wait()

	if rec.overlap.Load() {
		t.Error("callbacks overlapped")
	}
	for i := 1; i < len(rec.progress); i++ {
		if rec.progress[i] <= rec.progress[i-1] {
			t.Fatalf("progress went backwards: %v", rec.progress)
		}
	}
	if len(rec.statuses) != 100 {
		t.Errorf("got %d statuses; want 100", len(rec.statuses))
	}
}

func TestSynchronized_NilAndIdempotent(t *testing.T) {
	s := Synchronized(nil)
	s.Progress(1, 1)
	s.Status("ok", SeverityInfo)

	if Synchronized(s) != s {
		t.Error("wrapping twice should return the same reporter")
	}
}
