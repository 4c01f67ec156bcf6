package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"telconv/command"
)

// Telephony defaults: G.711 mu-law, narrowband, mono.
const (
	DefaultCodec      = "pcm_mulaw"
	DefaultSampleRate = 8000
	DefaultChannels   = 1
)

// stderrTail bounds how much ffmpeg diagnostic output is kept per run.
const stderrTail = 4096

// waitDelay bounds how long Run waits for ffmpeg's pipes after the process
// is killed by a cancelled context.
const waitDelay = 5 * time.Second

// AudioBuilder implements AudioCommand for building ffmpeg audio conversion commands.
type AudioBuilder struct {
	binary     string
	inputPath  string
	outputPath string
	codec      string
	sampleRate int
	channels   int
	filters    []string
	overwrite  bool
}

// NewAudioBuilder creates a new AudioBuilder converting inputPath to
// outputPath with the telephony defaults.
func NewAudioBuilder(inputPath, outputPath string) *AudioBuilder {
	return &AudioBuilder{
		binary:     command.DefaultBinary,
		inputPath:  inputPath,
		outputPath: outputPath,
		codec:      DefaultCodec,
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
	}
}

// SetBinary sets the ffmpeg executable to run. Empty keeps the default.
func (a *AudioBuilder) SetBinary(path string) AudioCommand {
	if path != "" {
		a.binary = path
	}
	return a
}

// SetCodec sets the audio codec (e.g., "pcm_mulaw", "pcm_alaw").
func (a *AudioBuilder) SetCodec(codec string) AudioCommand {
	a.codec = codec
	return a
}

// SetSampleRate sets the audio sample rate in Hz (e.g., 8000, 16000).
func (a *AudioBuilder) SetSampleRate(rate int) AudioCommand {
	a.sampleRate = rate
	return a
}

// SetChannels sets the number of audio channels (e.g., 1 for mono).
func (a *AudioBuilder) SetChannels(channels int) AudioCommand {
	a.channels = channels
	return a
}

// SetFilters adds an audio filter (e.g., "volume=0.5", "loudnorm").
func (a *AudioBuilder) SetFilters(filter string) AudioCommand {
	if filter != "" {
		a.filters = append(a.filters, filter)
	}
	return a
}

// SetOverwrite makes ffmpeg replace an existing output file (-y).
func (a *AudioBuilder) SetOverwrite(overwrite bool) AudioCommand {
	a.overwrite = overwrite
	return a
}

// BuildArgs constructs the ffmpeg command arguments.
//
// With defaults the result is exactly:
//
//	-i <input> -acodec pcm_mulaw -ar 8000 -ac 1 <output>
func (a *AudioBuilder) BuildArgs() []string {
	args := []string{"-i", a.inputPath}

	if a.codec != "" {
		args = append(args, "-acodec", a.codec)
	}

	// Add sample rate if specified
	if a.sampleRate > 0 {
		args = append(args, "-ar", fmt.Sprintf("%d", a.sampleRate))
	}

	// Add channels if specified
	if a.channels > 0 {
		args = append(args, "-ac", fmt.Sprintf("%d", a.channels))
	}

	if len(a.filters) > 0 {
		args = append(args, "-af", strings.Join(a.filters, ","))
	}

	if a.overwrite {
		args = append(args, "-y")
	}

	return append(args, a.outputPath)
}

// Run executes the ffmpeg command. Stdout is discarded and only the tail of
// stderr is kept to describe a failure.
func (a *AudioBuilder) Run(ctx context.Context) error {
	if err := a.validate(); err != nil {
		return fmt.Errorf("cannot run command: %w", err)
	}

	stderr := command.NewTailBuffer(stderrTail)
	cmd := exec.CommandContext(ctx, a.binary, a.BuildArgs()...)
	cmd.Stdout = nil
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	hideWindow(cmd)

	if err := cmd.Run(); err != nil {
		if detail := stderr.LastLine(); detail != "" {
			return fmt.Errorf("ffmpeg command failed: %w (output: %s)", err, detail)
		}
		return fmt.Errorf("ffmpeg command failed: %w", err)
	}
	return nil
}

// DryRun returns the ffmpeg command without executing it.
func (a *AudioBuilder) DryRun() (string, error) {
	if err := a.validate(); err != nil {
		return "", fmt.Errorf("cannot build command: %w", err)
	}
	return fmt.Sprintf("%s %s", a.binary, strings.Join(a.BuildArgs(), " ")), nil
}

// GetInputPath returns the input file path.
func (a *AudioBuilder) GetInputPath() string {
	return a.inputPath
}

// GetOutputPath returns the output file path.
func (a *AudioBuilder) GetOutputPath() string {
	return a.outputPath
}

func (a *AudioBuilder) validate() error {
	if strings.TrimSpace(a.inputPath) == "" {
		return fmt.Errorf("input path is empty")
	}
	if strings.TrimSpace(a.outputPath) == "" {
		return fmt.Errorf("output path is empty")
	}
	return nil
}
