// Package batch runs one conversion batch end to end: it resolves the
// ffmpeg binary, prepares a fresh output directory next to the inputs,
// converts every file on a bounded worker pool, zips the results and
// returns the size/time summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telconv/archiver"
	"telconv/locator"
	"telconv/metrics"
	"telconv/models"
	"telconv/orchestrator"
	"telconv/reporter"
	"telconv/summary"
	"telconv/transcoder"
)

// Default output layout, relative to the directory of the first input.
const (
	DefaultOutputDirName = "converted"
	DefaultArchiveName   = "converted_files.zip"
	DefaultOutputExt     = ".wav"
)

// Status messages reported through the Reporter.
const (
	msgNoInputs       = "No files selected"
	msgBinaryNotFound = "FFmpeg not found. Ensure the 'ffmpeg' folder is in the correct location."
	msgComplete       = "Conversion complete. Files zipped!"
)

// ConverterFactory builds the per-batch converter once the ffmpeg binary
// has been resolved.
type ConverterFactory func(binaryPath string) orchestrator.Converter

// Scheduler converts batches of audio files. A Scheduler may run several
// batches sequentially; each RunBatch call is independent.
type Scheduler struct {
	locator    locator.Locator
	workers    int
	jobTimeout time.Duration
	codec      string
	sampleRate int
	channels   int
	filters    []string

	outputDirName string
	archiveName   string
	outputExt     string

	newConverter ConverterFactory
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewScheduler creates a Scheduler that resolves ffmpeg through loc and
// uses one worker per CPU.
func NewScheduler(loc locator.Locator) *Scheduler {
	s := &Scheduler{
		locator:       loc,
		outputDirName: DefaultOutputDirName,
		archiveName:   DefaultArchiveName,
		outputExt:     DefaultOutputExt,
		logger:        zap.NewNop(),
	}
	s.newConverter = s.transcoderFor
	return s
}

// SetWorkers sets the pool size. Zero or negative means runtime.NumCPU().
func (s *Scheduler) SetWorkers(workers int) *Scheduler {
	s.workers = workers
	return s
}

// SetJobTimeout bounds each ffmpeg invocation. Zero disables the limit.
func (s *Scheduler) SetJobTimeout(timeout time.Duration) *Scheduler {
	s.jobTimeout = timeout
	return s
}

// SetAudio overrides the target codec, sample rate and channel count.
func (s *Scheduler) SetAudio(codec string, sampleRate, channels int) *Scheduler {
	s.codec = codec
	s.sampleRate = sampleRate
	s.channels = channels
	return s
}

// SetFilters sets ffmpeg audio filters applied to every file.
func (s *Scheduler) SetFilters(filters []string) *Scheduler {
	s.filters = append([]string(nil), filters...)
	return s
}

// SetOutputLayout overrides the output directory name, archive file name
// and output extension. Empty values keep the current setting.
func (s *Scheduler) SetOutputLayout(dirName, archiveName, ext string) *Scheduler {
	if dirName != "" {
		s.outputDirName = dirName
	}
	if archiveName != "" {
		s.archiveName = archiveName
	}
	if ext != "" {
		s.outputExt = ext
	}
	return s
}

// SetConverterFactory replaces the ffmpeg-backed converter, mainly for tests.
func (s *Scheduler) SetConverterFactory(factory ConverterFactory) *Scheduler {
	if factory != nil {
		s.newConverter = factory
	}
	return s
}

// SetMetrics enables Prometheus instrumentation.
func (s *Scheduler) SetMetrics(m *metrics.Metrics) *Scheduler {
	s.metrics = m
	return s
}

// SetLogger sets the structured logger.
func (s *Scheduler) SetLogger(logger *zap.Logger) *Scheduler {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Scheduler) transcoderFor(binaryPath string) orchestrator.Converter {
	return transcoder.New(binaryPath).
		SetAudio(s.codec, s.sampleRate, s.channels).
		SetFilters(s.filters).
		SetTimeout(s.jobTimeout).
		SetLogger(s.logger)
}

// RunBatch converts inputs and archives the results.
//
// Fatal conditions (no inputs, ffmpeg missing, unusable output directory)
// are reported once through rep with a danger or warning severity and
// return a nil summary. Per-file failures never abort the batch; they are
// counted in the summary. If the archive cannot be written the summary is
// returned together with an error wrapping ErrArchive. If ctx is cancelled
// mid-batch, jobs not yet started are recorded as failed, archiving is
// skipped, and the summary is returned with ctx's error.
//
// Progress is reported exactly once per input with strictly increasing
// counts. rep may be nil.
func (s *Scheduler) RunBatch(ctx context.Context, inputs []string, rep reporter.Reporter) (*models.BatchSummary, error) {
	rep = reporter.Synchronized(rep)

	if len(inputs) == 0 {
		rep.Status(msgNoInputs, reporter.SeverityWarning)
		return nil, ErrNoInputs
	}

	binaryPath, err := s.locator.Locate()
	if err != nil {
		s.logger.Error("ffmpeg not found", zap.Error(err))
		rep.Status(msgBinaryNotFound, reporter.SeverityDanger)
		return nil, fmt.Errorf("%w: %v", ErrBinaryNotFound, err)
	}

	baseDir := baseDirFor(inputs)
	outputDir := filepath.Join(baseDir, s.outputDirName)
	archivePath := filepath.Join(baseDir, s.archiveName)

	jobs, rejected := s.buildJobs(inputs, outputDir)

	if err := prepareWorkspace(outputDir, archivePath); err != nil {
		s.logger.Error("workspace preparation failed", zap.String("output_dir", outputDir), zap.Error(err))
		rep.Status(fmt.Sprintf("Cannot prepare %s: %v", outputDir, err), reporter.SeverityDanger)
		return nil, fmt.Errorf("%w: %v", ErrWorkspace, err)
	}

	batchID := uuid.NewString()
	log := s.logger.With(zap.String("batch_id", batchID))
	start := time.Now()
	agg := summary.NewAggregator(batchID, len(jobs), start)

	pool := orchestrator.NewWorkerPool(s.workers).
		SetStartCallback(func(job models.ConversionJob) {
			log.Debug("job started", zap.Int("job_id", job.ID), zap.String("input", job.InputPath))
		}).
		SetProgressCallback(func(completed, total int, r models.JobResult) {
			agg.Record(r)
			s.metrics.ObserveJob(r)
			rep.Progress(completed, total)
		})

	log.Info("batch started",
		zap.String("binary", binaryPath),
		zap.String("output_dir", outputDir),
		zap.Int("files", len(jobs)),
		zap.Int("workers", min(pool.Workers(), len(jobs))))

	pool.Execute(ctx, jobs, rejectInvalid(rejected, s.instrument(s.newConverter(binaryPath))))
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		sum := agg.Finalize(outputDir, "", 0, elapsed)
		s.metrics.ObserveBatch(metrics.OutcomeCancelled, elapsed)
		log.Warn("batch cancelled",
			zap.Int("converted", sum.Converted),
			zap.Int("recorded", agg.Recorded()),
			zap.Int("total", len(jobs)),
			zap.Error(ctxErr))
		rep.Status("Conversion cancelled", reporter.SeverityWarning)
		return sum, ctxErr
	}

	entries, err := archiver.Archive(outputDir, archivePath)
	if err != nil {
		sum := agg.Finalize(outputDir, "", 0, elapsed)
		s.metrics.ObserveBatch(metrics.OutcomeArchiveFail, elapsed)
		log.Error("archive failed", zap.String("archive", archivePath), zap.Error(err))
		rep.Status(fmt.Sprintf("Failed to create archive: %v", err), reporter.SeverityDanger)
		return sum, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	sum := agg.Finalize(outputDir, archivePath, entries, elapsed)
	s.metrics.ObserveBatch(metrics.Outcome(sum), elapsed)
	log.Info("batch complete",
		zap.Int("converted", sum.Converted),
		zap.Int("failed", sum.Failed),
		zap.Float64("size_reduction_mb", sum.SizeReductionMB),
		zap.Float64("elapsed_seconds", sum.ElapsedSeconds),
		zap.String("archive", archivePath))

	if sum.AllSucceeded() {
		rep.Status(msgComplete, reporter.SeveritySuccess)
	} else {
		rep.Status(fmt.Sprintf("Conversion complete with %d of %d failed. Files zipped!", sum.Failed, sum.Total),
			reporter.SeverityWarning)
	}
	return sum, nil
}

// instrument tracks in-flight conversions around conv.
func (s *Scheduler) instrument(conv orchestrator.Converter) orchestrator.Converter {
	if s.metrics == nil {
		return conv
	}
	return orchestrator.ConverterFunc(func(ctx context.Context, job models.ConversionJob) models.JobResult {
		s.metrics.JobStarted()
		defer s.metrics.JobFinished()
		return conv.Convert(ctx, job)
	})
}

// rejectInvalid fails jobs listed in rejected without running conv.
func rejectInvalid(rejected map[int]error, conv orchestrator.Converter) orchestrator.Converter {
	if len(rejected) == 0 {
		return conv
	}
	return orchestrator.ConverterFunc(func(ctx context.Context, job models.ConversionJob) models.JobResult {
		if err := rejected[job.ID]; err != nil {
			return models.NewJobFailure(job, err)
		}
		return conv.Convert(ctx, job)
	})
}

// buildJobs creates one job per input in submission order. Every job gets
// its own output path, even when inputs share a stem or repeat. Inputs that
// cannot form a valid job are returned in rejected, keyed by job ID, so
// they count as failed files instead of aborting the batch.
func (s *Scheduler) buildJobs(inputs []string, outputDir string) (jobs []models.ConversionJob, rejected map[int]error) {
	resolver := newCollisionResolver()
	jobs = make([]models.ConversionJob, 0, len(inputs))
	for i, in := range inputs {
		job, err := models.NewConversionJob(i, in, outputDir, s.outputExt)
		if err != nil {
			if rejected == nil {
				rejected = make(map[int]error)
			}
			rejected[i] = fmt.Errorf("file %q: %w", in, err)
			jobs = append(jobs, models.ConversionJob{ID: i, InputPath: in})
			continue
		}
		job.OutputPath = resolver.resolve(job.OutputPath)
		jobs = append(jobs, job)
	}
	return jobs, rejected
}

// baseDirFor returns the directory of the first usable input; outputs and
// the archive are placed there.
func baseDirFor(inputs []string) string {
	for _, in := range inputs {
		if strings.TrimSpace(in) != "" {
			return filepath.Dir(in)
		}
	}
	return filepath.Dir(inputs[0])
}

// prepareWorkspace replaces outputDir with an empty directory and removes
// any archive left by a previous run.
func prepareWorkspace(outputDir, archivePath string) error {
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove previous output: %w", err)
	}
	if err := os.Mkdir(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove previous archive: %w", err)
	}
	return nil
}
