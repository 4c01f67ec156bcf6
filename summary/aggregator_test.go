package summary

import (
	"errors"
	"sync"
	"testing"
	"time"

	"telconv/models"
)

func success(t *testing.T, input string, before, after int64) models.JobResult {
	t.Helper()
	r, err := models.NewJobSuccess(models.ConversionJob{InputPath: input, OutputPath: input + ".wav"}, before, after)
	if err != nil {
		t.Fatalf("NewJobSuccess: %v", err)
	}
	return r
}

func failure(input string) models.JobResult {
	return models.NewJobFailure(models.ConversionJob{InputPath: input, OutputPath: input + ".wav"}, errors.New("exit status 1"))
}

func TestAggregator_MixedBatch(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	agg := NewAggregator("batch-1", 3, start)

	agg.Record(success(t, "a.mp3", 1_000_000, 100_000))
	agg.Record(failure("b.wav"))
	agg.Record(success(t, "c.m4a", 2_000_000, 150_000))

	s := agg.Finalize("/calls/converted", "/calls/converted_files.zip", 2, 1234*time.Millisecond)

	if s.Converted != 2 || s.Failed != 1 || s.Total != 3 {
		t.Errorf("counts = %d/%d/%d; want 2/1/3", s.Converted, s.Failed, s.Total)
	}
	if s.SizeReductionMB != 2.62 {
		t.Errorf("SizeReductionMB = %v; want 2.62", s.SizeReductionMB)
	}
	if s.BytesBefore != 3_000_000 || s.BytesAfter != 250_000 {
		t.Errorf("bytes = %d -> %d", s.BytesBefore, s.BytesAfter)
	}
	if s.ElapsedSeconds != 1.23 {
		t.Errorf("ElapsedSeconds = %v; want 1.23", s.ElapsedSeconds)
	}
	if len(s.Failures) != 1 || s.Failures[0] != "b.wav" {
		t.Errorf("Failures = %v", s.Failures)
	}
	if s.ID != "batch-1" || s.ArchiveEntries != 2 {
		t.Errorf("ID/entries = %s/%d", s.ID, s.ArchiveEntries)
	}
	if !s.CompletedAt.Equal(start.Add(1234 * time.Millisecond)) {
		t.Errorf("CompletedAt = %v", s.CompletedAt)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("summary invalid: %v", err)
	}
}

func TestAggregator_AllFailed(t *testing.T) {
	agg := NewAggregator("", 2, time.Now())
	agg.Record(failure("x.mp3"))
	agg.Record(failure("y.mp3"))

	s := agg.Finalize("out", "out.zip", 0, time.Second)
	if s.SizeReductionMB != 0 {
		t.Errorf("SizeReductionMB = %v; want exactly 0", s.SizeReductionMB)
	}
	if s.Converted != 0 || s.Failed != 2 {
		t.Errorf("counts = %d/%d", s.Converted, s.Failed)
	}
}

func TestAggregator_ConcurrentRecord(t *testing.T) {
	const n = 200
	agg := NewAggregator("", n, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				agg.Record(failure("f"))
				return
			}
			r, _ := models.NewJobSuccess(models.ConversionJob{InputPath: "s", OutputPath: "s.wav"}, 10, 1)
			agg.Record(r)
		}(i)
	}
	wg.Wait()

	if agg.Recorded() != n {
		t.Fatalf("Recorded() = %d; want %d", agg.Recorded(), n)
	}
	s := agg.Finalize("", "", 0, 0)
	if s.Converted != 150 || s.Failed != 50 {
		t.Errorf("counts = %d/%d; want 150/50", s.Converted, s.Failed)
	}
	if s.BytesBefore != 1500 || s.BytesAfter != 150 {
		t.Errorf("bytes = %d/%d", s.BytesBefore, s.BytesAfter)
	}
}

func TestFinalize_ReturnsCopyOfFailures(t *testing.T) {
	agg := NewAggregator("", 1, time.Now())
	agg.Record(failure("a"))

	s := agg.Finalize("", "", 0, 0)
	s.Failures[0] = "mutated"

	if again := agg.Finalize("", "", 0, 0); again.Failures[0] != "a" {
		t.Error("Finalize should not expose internal state")
	}
}

func TestSizeReductionMB(t *testing.T) {
	tests := []struct {
		name     string
		before   int64
		after    int64
		expected float64
	}{
		{"Nothing converted", 0, 0, 0},
		{"Exactly one MB", 2 * 1048576, 1048576, 1},
		{"Mixed batch totals", 3_000_000, 250_000, 2.62},
		{"Growth is negative", 1048576, 2 * 1048576, -1},
		{"Tiny delta rounds to zero", 1000, 999, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeReductionMB(tt.before, tt.after); got != tt.expected {
				t.Errorf("SizeReductionMB(%d, %d) = %v; want %v", tt.before, tt.after, got, tt.expected)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{1.234, 1.23},
		{2.6226, 2.62},
		{-0.004, 0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.expected {
			t.Errorf("Round2(%v) = %v; want %v", tt.in, got, tt.expected)
		}
	}
}
