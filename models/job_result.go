package models

import (
	"fmt"
	"time"
)

// JobStatus classifies the outcome of a ConversionJob.
type JobStatus string

const (
	JobSuccess JobStatus = "success"
	JobFailed  JobStatus = "failed"
)

// JobResult represents the outcome of converting a single file.
//
// Per-file failures are carried as data rather than returned as errors, so
// one bad input never interrupts the rest of the batch. The structure
// enforces logical consistency: successful results carry sizes and no
// error, failed results carry an error and zero sizes.
//
// Use NewJobSuccess or NewJobFailure to create validated instances.
type JobResult struct {
	Job        ConversionJob `json:"job"`
	Status     JobStatus     `json:"status"`
	SizeBefore int64         `json:"size_before"`
	SizeAfter  int64         `json:"size_after"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
}

// NewJobSuccess creates a successful JobResult with the input and output
// byte sizes measured around the conversion.
//
// Returns an error if either size is negative.
func NewJobSuccess(job ConversionJob, sizeBefore, sizeAfter int64) (JobResult, error) {
	r := JobResult{
		Job:        job,
		Status:     JobSuccess,
		SizeBefore: sizeBefore,
		SizeAfter:  sizeAfter,
	}
	if err := r.Validate(); err != nil {
		return JobResult{}, fmt.Errorf("invalid job result: %w", err)
	}
	return r, nil
}

// NewJobFailure creates a failed JobResult. Sizes are always zero.
//
// A nil cause is replaced with a generic error so the result stays valid.
func NewJobFailure(job ConversionJob, cause error) JobResult {
	if cause == nil {
		cause = fmt.Errorf("conversion failed")
	}
	return JobResult{
		Job:    job,
		Status: JobFailed,
		Err:    cause,
	}
}

// Succeeded reports whether the job produced an output file.
func (r JobResult) Succeeded() bool {
	return r.Status == JobSuccess
}

// SizeDelta returns the number of bytes saved by the conversion.
// Failed results always report zero.
func (r JobResult) SizeDelta() int64 {
	if !r.Succeeded() {
		return 0
	}
	return r.SizeBefore - r.SizeAfter
}

// Validate checks if the JobResult has consistent state.
//
// Returns an error if:
//   - Status is neither success nor failed
//   - Status is success but Err is not nil
//   - Status is failed but Err is nil
//   - Sizes are negative, or non-zero on a failed result
func (r JobResult) Validate() error {
	switch r.Status {
	case JobSuccess:
		if r.Err != nil {
			return fmt.Errorf("inconsistent state: status is success but error is not nil")
		}
		if r.SizeBefore < 0 || r.SizeAfter < 0 {
			return fmt.Errorf("sizes cannot be negative")
		}
	case JobFailed:
		if r.Err == nil {
			return fmt.Errorf("failed result must have an error")
		}
		if r.SizeBefore != 0 || r.SizeAfter != 0 {
			return fmt.Errorf("failed result should not have sizes")
		}
	default:
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}
