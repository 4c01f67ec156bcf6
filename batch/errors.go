package batch

import "errors"

var (
	// ErrNoInputs is returned when RunBatch is called without any files.
	ErrNoInputs = errors.New("no files selected")
	// ErrBinaryNotFound is returned when no ffmpeg binary could be resolved.
	ErrBinaryNotFound = errors.New("ffmpeg binary not found")
	// ErrWorkspace is returned when the output directory cannot be prepared.
	ErrWorkspace = errors.New("failed to prepare output directory")
	// ErrArchive is returned when the archive could not be written. The
	// batch summary is still returned alongside it.
	ErrArchive = errors.New("failed to create archive")
)
