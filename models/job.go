// Package models provides core data structures for the conversion pipeline.
package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ConversionJob identifies one unit of work: a single input file and the
// output file it is converted into.
//
// Jobs are created by the batch scheduler when a batch starts and are
// consumed exactly once by a converter. They are passed by value and never
// modified after creation.
//
// Use NewConversionJob to create a validated ConversionJob instance.
type ConversionJob struct {
	ID         int    `json:"id"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
}

// NewConversionJob creates a job for inputPath whose output keeps the input
// stem, takes extension ext, and lives inside outputDir.
//
// Example:
//
//	job, err := models.NewConversionJob(0, "/calls/a.mp3", "/calls/converted", ".wav")
//	// job.OutputPath == "/calls/converted/a.wav"
func NewConversionJob(id int, inputPath, outputDir, ext string) (ConversionJob, error) {
	job := ConversionJob{
		ID:         id,
		InputPath:  inputPath,
		OutputPath: OutputPathFor(inputPath, outputDir, ext),
	}
	if strings.TrimSpace(outputDir) == "" {
		return ConversionJob{}, fmt.Errorf("invalid job: output_dir cannot be empty")
	}
	if err := job.Validate(); err != nil {
		return ConversionJob{}, fmt.Errorf("invalid job: %w", err)
	}
	return job, nil
}

// OutputPathFor derives the output path for inputPath: same stem, extension
// ext (with or without the leading dot), inside outputDir.
func OutputPathFor(inputPath, outputDir, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+ext)
}

// Validate checks if the ConversionJob has valid data.
//
// Returns an error if:
//   - ID is negative
//   - InputPath or OutputPath is empty or whitespace-only
//   - InputPath and OutputPath refer to the same file
func (j ConversionJob) Validate() error {
	if j.ID < 0 {
		return fmt.Errorf("id cannot be negative")
	}
	if strings.TrimSpace(j.InputPath) == "" {
		return fmt.Errorf("input_path cannot be empty")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty")
	}
	if filepath.Clean(j.InputPath) == filepath.Clean(j.OutputPath) {
		return fmt.Errorf("output_path must differ from input_path")
	}
	return nil
}

// String returns a short label used in logs.
func (j ConversionJob) String() string {
	return fmt.Sprintf("job %d (%s)", j.ID, filepath.Base(j.InputPath))
}
