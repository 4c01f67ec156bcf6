// Package summary folds per-job results into a BatchSummary.
package summary

import (
	"math"
	"sync"
	"time"

	"telconv/models"
)

// bytesPerMB is the binary megabyte used for size reporting.
const bytesPerMB = 1024 * 1024

// Aggregator accumulates JobResults for one batch. Record may be called from
// any goroutine.
type Aggregator struct {
	mu sync.Mutex

	id          string
	total       int
	converted   int
	failed      int
	bytesBefore int64
	bytesAfter  int64
	failures    []string
	startedAt   time.Time
}

// NewAggregator creates an aggregator for a batch of total jobs.
func NewAggregator(id string, total int, startedAt time.Time) *Aggregator {
	return &Aggregator{
		id:        id,
		total:     total,
		startedAt: startedAt,
	}
}

// Record folds one result into the running totals. Failed results count
// toward Failed and contribute no bytes.
func (a *Aggregator) Record(r models.JobResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.Succeeded() {
		a.converted++
		a.bytesBefore += r.SizeBefore
		a.bytesAfter += r.SizeAfter
		return
	}
	a.failed++
	a.failures = append(a.failures, r.Job.InputPath)
}

// Recorded returns how many results have been folded in so far.
func (a *Aggregator) Recorded() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.converted + a.failed
}

// Finalize produces the immutable BatchSummary. elapsed is the wall-clock
// time from batch start until every job completed.
func (a *Aggregator) Finalize(outputDir, archivePath string, archiveEntries int, elapsed time.Duration) *models.BatchSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &models.BatchSummary{
		ID:              a.id,
		Total:           a.total,
		Converted:       a.converted,
		Failed:          a.failed,
		BytesBefore:     a.bytesBefore,
		BytesAfter:      a.bytesAfter,
		SizeReductionMB: SizeReductionMB(a.bytesBefore, a.bytesAfter),
		ElapsedSeconds:  Round2(elapsed.Seconds()),
		Elapsed:         elapsed,
		OutputDir:       outputDir,
		ArchivePath:     archivePath,
		ArchiveEntries:  archiveEntries,
		Failures:        append([]string(nil), a.failures...),
		StartedAt:       a.startedAt,
		CompletedAt:     a.startedAt.Add(elapsed),
	}
}

// SizeReductionMB converts a byte delta to megabytes rounded to two
// decimals. Nothing converted (before == 0) yields exactly 0.
func SizeReductionMB(before, after int64) float64 {
	if before == 0 {
		return 0
	}
	return Round2(float64(before-after) / bytesPerMB)
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
