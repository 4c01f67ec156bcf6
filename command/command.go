// Package command provides the core Command interface for building and
// executing ffmpeg invocations.
//
// Builders implement Command so the transcoder can run, preview, and log any
// of them without knowing how the argument list was assembled.
package command

import (
	"context"
	"strings"
	"sync"
)

// DefaultBinary is used when a builder is not given an explicit ffmpeg path.
const DefaultBinary = "ffmpeg"

// Command represents an ffmpeg command that can be built, executed, or
// previewed.
//
// Example usage:
//
//	cmd := audio.NewAudioBuilder("/calls/a.mp3", "/calls/converted/a.wav").
//		SetBinary("/opt/telconv/ffmpeg/bin/ffmpeg")
//
//	// Preview the command
//	cmd.DryRun()
//
//	// Execute the command
//	cmd.Run(ctx)
type Command interface {
	// BuildArgs constructs and returns the ffmpeg arguments, without the
	// binary itself.
	//
	// Example return value:
	//   ["-i", "a.mp3", "-acodec", "pcm_mulaw", "-ar", "8000", "-ac", "1", "a.wav"]
	BuildArgs() []string

	// Run executes the command and blocks until it exits or ctx is done.
	// The process output is not forwarded to the console.
	//
	// Returns an error if the binary cannot be started or exits non-zero.
	Run(ctx context.Context) error

	// DryRun returns the command line as a string without executing it.
	DryRun() (string, error)

	// GetInputPath returns the primary input file path for this command.
	GetInputPath() string

	// GetOutputPath returns the output file path for this command.
	GetOutputPath() string
}

// TailBuffer is an io.Writer that keeps only the last Max bytes written to
// it. It is used to capture the end of ffmpeg's stderr for error messages
// without holding the whole stream in memory.
type TailBuffer struct {
	Max int

	mu  sync.Mutex
	buf []byte
}

// NewTailBuffer returns a TailBuffer keeping at most max bytes.
func NewTailBuffer(max int) *TailBuffer {
	return &TailBuffer{Max: max}
}

// Write appends p, discarding the oldest bytes beyond Max.
func (t *TailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if t.Max > 0 && len(t.buf) > t.Max {
		t.buf = append(t.buf[:0], t.buf[len(t.buf)-t.Max:]...)
	}
	return len(p), nil
}

// String returns the retained bytes with surrounding whitespace trimmed.
func (t *TailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

// LastLine returns the last non-empty line retained, which for ffmpeg is
// usually the actual error.
func (t *TailBuffer) LastLine() string {
	s := t.String()
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
