package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"telconv/models"
)

// Converter performs one ConversionJob. Implementations report failures in
// the returned JobResult rather than panicking or returning errors.
type Converter interface {
	Convert(ctx context.Context, job models.ConversionJob) models.JobResult
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, job models.ConversionJob) models.JobResult

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, job models.ConversionJob) models.JobResult {
	return f(ctx, job)
}

// ProgressCallback receives each result as it completes together with the
// cumulative completed count.
type ProgressCallback func(completed, total int, result models.JobResult)

// StartCallback is invoked by a worker just before it runs a job.
type StartCallback func(job models.ConversionJob)

// WorkerPool runs ConversionJobs on a fixed number of workers.
//
// Results are funneled through a single completion channel and consumed on
// the goroutine that called Execute, so the progress callback is never
// invoked concurrently and sees completions in arrival order.
type WorkerPool struct {
	workers    int
	onProgress ProgressCallback
	onStart    StartCallback
}

// NewWorkerPool creates a pool with the given number of workers.
// Zero or negative means one worker per logical CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{workers: workers}
}

// Workers returns the configured pool size.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// SetProgressCallback sets a callback for completion updates.
func (p *WorkerPool) SetProgressCallback(callback ProgressCallback) *WorkerPool {
	p.onProgress = callback
	return p
}

// SetStartCallback sets a callback fired when a worker picks up a job.
func (p *WorkerPool) SetStartCallback(callback StartCallback) *WorkerPool {
	p.onStart = callback
	return p
}

// Execute runs every job and blocks until each has produced exactly one
// result. Results are returned in completion order.
//
// A job that starts after ctx is done is not run; it completes immediately
// as a failure carrying ctx's error. A panicking converter is recovered and
// its job is recorded as failed.
func (p *WorkerPool) Execute(ctx context.Context, jobs []models.ConversionJob, conv Converter) []models.JobResult {
	total := len(jobs)
	results := make([]models.JobResult, 0, total)
	if total == 0 {
		return results
	}

	workers := p.workers
	if workers > total {
		workers = total
	}

	queue := make(chan models.ConversionJob, total)
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	completeCh := make(chan models.JobResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				completeCh <- p.run(ctx, conv, job)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(completeCh)
	}()

	for result := range completeCh {
		results = append(results, result)
		if p.onProgress != nil {
			p.onProgress(len(results), total, result)
		}
	}

	return results
}

// run executes a single job, isolating the pool from converter panics.
func (p *WorkerPool) run(ctx context.Context, conv Converter, job models.ConversionJob) (result models.JobResult) {
	if err := ctx.Err(); err != nil {
		return models.NewJobFailure(job, fmt.Errorf("not started: %w", err))
	}

	defer func() {
		if r := recover(); r != nil {
			result = models.NewJobFailure(job, fmt.Errorf("converter panic: %v", r))
		}
	}()

	if p.onStart != nil {
		p.onStart(job)
	}

	result = conv.Convert(ctx, job)
	result.Job = job
	if err := result.Validate(); err != nil {
		return models.NewJobFailure(job, fmt.Errorf("invalid result: %w", err))
	}
	return result
}
