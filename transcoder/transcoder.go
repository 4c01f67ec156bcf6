// Package transcoder converts one input file with the external ffmpeg binary.
//
// The process is treated as an untrusted boundary: a missing binary, a
// non-zero exit, a timeout, or an unreadable output all become a Failed
// models.JobResult instead of an error or panic escaping to the caller.
package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"telconv/command/audio"
	"telconv/models"
)

// ErrTimeout marks a conversion killed because it exceeded the job timeout.
var ErrTimeout = errors.New("conversion timed out")

// Transcoder runs ffmpeg for a single ConversionJob.
type Transcoder struct {
	binaryPath string
	codec      string
	sampleRate int
	channels   int
	filters    []string
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a Transcoder using the ffmpeg binary at binaryPath with the
// telephony defaults (pcm_mulaw, 8000 Hz, mono) and no timeout.
func New(binaryPath string) *Transcoder {
	return &Transcoder{
		binaryPath: binaryPath,
		codec:      audio.DefaultCodec,
		sampleRate: audio.DefaultSampleRate,
		channels:   audio.DefaultChannels,
		logger:     zap.NewNop(),
	}
}

// SetAudio overrides the output codec, sample rate and channel count.
// Zero values keep the current setting.
func (t *Transcoder) SetAudio(codec string, sampleRate, channels int) *Transcoder {
	if codec != "" {
		t.codec = codec
	}
	if sampleRate > 0 {
		t.sampleRate = sampleRate
	}
	if channels > 0 {
		t.channels = channels
	}
	return t
}

// SetFilters sets ffmpeg audio filters applied to every conversion.
func (t *Transcoder) SetFilters(filters []string) *Transcoder {
	t.filters = append([]string(nil), filters...)
	return t
}

// SetTimeout bounds each conversion. Zero disables the limit.
func (t *Transcoder) SetTimeout(timeout time.Duration) *Transcoder {
	t.timeout = timeout
	return t
}

// SetLogger sets the logger used for per-job diagnostics.
func (t *Transcoder) SetLogger(logger *zap.Logger) *Transcoder {
	if logger != nil {
		t.logger = logger
	}
	return t
}

// Command returns the ffmpeg command that Convert would run for job.
func (t *Transcoder) Command(job models.ConversionJob) audio.AudioCommand {
	cmd := audio.NewAudioBuilder(job.InputPath, job.OutputPath).
		SetBinary(t.binaryPath).
		SetCodec(t.codec).
		SetSampleRate(t.sampleRate).
		SetChannels(t.channels)
	for _, f := range t.filters {
		cmd.SetFilters(f)
	}
	return cmd
}

// Convert runs ffmpeg for job and classifies the outcome. It never returns
// an error: every failure is reported as a Failed result with zero sizes.
func (t *Transcoder) Convert(ctx context.Context, job models.ConversionJob) models.JobResult {
	start := time.Now()
	result := t.convert(ctx, job)
	result.Duration = time.Since(start)

	if result.Succeeded() {
		t.logger.Debug("converted",
			zap.String("input", job.InputPath),
			zap.String("output", job.OutputPath),
			zap.Int64("size_before", result.SizeBefore),
			zap.Int64("size_after", result.SizeAfter),
			zap.Int64("saved", result.SizeDelta()),
			zap.Duration("duration", result.Duration))
	} else {
		t.logger.Warn("conversion failed",
			zap.String("input", job.InputPath),
			zap.Error(result.Err),
			zap.Duration("duration", result.Duration))
	}
	return result
}

func (t *Transcoder) convert(ctx context.Context, job models.ConversionJob) models.JobResult {
	if err := job.Validate(); err != nil {
		return models.NewJobFailure(job, err)
	}

	inInfo, err := os.Stat(job.InputPath)
	if err != nil {
		return models.NewJobFailure(job, fmt.Errorf("failed to stat input: %w", err))
	}

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if err := t.Command(job).Run(runCtx); err != nil {
		t.discardOutput(job)
		if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return models.NewJobFailure(job, fmt.Errorf("%w after %s: %v", ErrTimeout, t.timeout, err))
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.NewJobFailure(job, fmt.Errorf("%w: %v", ctxErr, err))
		}
		return models.NewJobFailure(job, err)
	}

	outInfo, err := os.Stat(job.OutputPath)
	if err != nil {
		return models.NewJobFailure(job, fmt.Errorf("failed to stat output: %w", err))
	}

	result, err := models.NewJobSuccess(job, inInfo.Size(), outInfo.Size())
	if err != nil {
		t.discardOutput(job)
		return models.NewJobFailure(job, err)
	}
	return result
}

// discardOutput removes whatever a failed run left at the output path, so
// only successful conversions end up in the archive.
func (t *Transcoder) discardOutput(job models.ConversionJob) {
	if err := os.Remove(job.OutputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		t.logger.Warn("failed to remove partial output", zap.String("output", job.OutputPath), zap.Error(err))
	}
}
