package models

import (
	"fmt"
	"time"
)

// BatchSummary aggregates every JobResult of one batch.
//
// It is built incrementally while jobs complete and finalized once all of
// them have returned; callers receive it read-only.
type BatchSummary struct {
	ID              string        `json:"id"`
	Total           int           `json:"total"`
	Converted       int           `json:"converted"`
	Failed          int           `json:"failed"`
	BytesBefore     int64         `json:"bytes_before"`
	BytesAfter      int64         `json:"bytes_after"`
	SizeReductionMB float64       `json:"size_reduction_mb"`
	ElapsedSeconds  float64       `json:"elapsed_seconds"`
	Elapsed         time.Duration `json:"-"`
	OutputDir       string        `json:"output_dir"`
	ArchivePath     string        `json:"archive_path"`
	ArchiveEntries  int           `json:"archive_entries"`
	Failures        []string      `json:"failures,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
	CompletedAt     time.Time     `json:"completed_at"`
}

// AllSucceeded reports whether every submitted job converted.
func (s *BatchSummary) AllSucceeded() bool {
	return s.Failed == 0 && s.Converted == s.Total
}

// Validate checks the counting invariant: every submitted job is accounted
// for exactly once.
func (s *BatchSummary) Validate() error {
	if s.Converted < 0 || s.Failed < 0 {
		return fmt.Errorf("counts cannot be negative")
	}
	if s.Converted+s.Failed != s.Total {
		return fmt.Errorf("converted (%d) + failed (%d) != total (%d)", s.Converted, s.Failed, s.Total)
	}
	if s.Converted == 0 && s.SizeReductionMB != 0 {
		return fmt.Errorf("size reduction must be zero when nothing converted")
	}
	return nil
}
