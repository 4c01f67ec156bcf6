package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"telconv/command"
)

func TestNewAudioBuilder(t *testing.T) {
	builder := NewAudioBuilder("/calls/a.mp3", "/calls/converted/a.wav")

	if builder == nil {
		t.Fatal("NewAudioBuilder returned nil")
	}

	if builder.inputPath != "/calls/a.mp3" {
		t.Errorf("Expected inputPath to be /calls/a.mp3, got %s", builder.inputPath)
	}

	if builder.outputPath != "/calls/converted/a.wav" {
		t.Errorf("Expected outputPath to be /calls/converted/a.wav, got %s", builder.outputPath)
	}

	// Check defaults
	if builder.binary != command.DefaultBinary {
		t.Errorf("Expected default binary to be %q, got %s", command.DefaultBinary, builder.binary)
	}
	if builder.codec != "pcm_mulaw" {
		t.Errorf("Expected default codec to be 'pcm_mulaw', got %s", builder.codec)
	}
	if builder.sampleRate != 8000 {
		t.Errorf("Expected default sample rate to be 8000, got %d", builder.sampleRate)
	}
	if builder.channels != 1 {
		t.Errorf("Expected default channels to be 1, got %d", builder.channels)
	}
}

func TestAudioBuilder_BuildArgs_TelephonyTemplate(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")

	want := []string{"-i", "in.mp3", "-acodec", "pcm_mulaw", "-ar", "8000", "-ac", "1", "out.wav"}
	got := builder.BuildArgs()

	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("BuildArgs() = %v; want %v", got, want)
	}
}

func TestAudioBuilder_Setters(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")

	result := builder.SetBinary("/opt/ffmpeg").
		SetCodec("pcm_alaw").
		SetSampleRate(16000).
		SetChannels(2).
		SetFilters("volume=0.5").
		SetFilters("").
		SetOverwrite(true)

	// Test method chaining
	if result != builder {
		t.Error("setters should return the builder for method chaining")
	}

	want := []string{
		"-i", "in.mp3",
		"-acodec", "pcm_alaw",
		"-ar", "16000",
		"-ac", "2",
		"-af", "volume=0.5",
		"-y",
		"out.wav",
	}
	got := builder.BuildArgs()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("BuildArgs() = %v; want %v", got, want)
	}
	if builder.binary != "/opt/ffmpeg" {
		t.Errorf("binary = %s; want /opt/ffmpeg", builder.binary)
	}
}

func TestAudioBuilder_SetBinaryEmptyKeepsDefault(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")
	builder.SetBinary("")
	if builder.binary != command.DefaultBinary {
		t.Errorf("binary = %s; want default", builder.binary)
	}
}

func TestAudioBuilder_MultipleFilters(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")
	builder.SetFilters("highpass=f=300").SetFilters("lowpass=f=3400")

	args := strings.Join(builder.BuildArgs(), " ")
	if !strings.Contains(args, "-af highpass=f=300,lowpass=f=3400") {
		t.Errorf("filters not joined: %s", args)
	}
}

func TestAudioBuilder_ZeroValuesOmitted(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")
	builder.SetCodec("").SetSampleRate(0).SetChannels(0)

	want := []string{"-i", "in.mp3", "out.wav"}
	if got := builder.BuildArgs(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("BuildArgs() = %v; want %v", got, want)
	}
}

func TestAudioBuilder_DryRun(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")
	builder.SetBinary("/usr/bin/ffmpeg")

	got, err := builder.DryRun()
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}
	want := "/usr/bin/ffmpeg -i in.mp3 -acodec pcm_mulaw -ar 8000 -ac 1 out.wav"
	if got != want {
		t.Errorf("DryRun() = %q; want %q", got, want)
	}
}

func TestAudioBuilder_DryRunEmptyPaths(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
	}{
		{"empty input", "", "out.wav"},
		{"empty output", "in.mp3", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewAudioBuilder(tt.input, tt.output)
			if _, err := builder.DryRun(); err == nil {
				t.Error("expected error")
			}
			if err := builder.Run(context.Background()); err == nil {
				t.Error("expected Run to refuse empty paths")
			}
		})
	}
}

func TestAudioBuilder_Interfaces(t *testing.T) {
	var _ command.Command = NewAudioBuilder("in", "out")
	var _ AudioCommand = NewAudioBuilder("in", "out")

	builder := NewAudioBuilder("in.mp3", "out.wav")
	if builder.GetInputPath() != "in.mp3" {
		t.Errorf("GetInputPath() = %s", builder.GetInputPath())
	}
	if builder.GetOutputPath() != "out.wav" {
		t.Errorf("GetOutputPath() = %s", builder.GetOutputPath())
	}
}

func TestAudioBuilder_RunMissingBinary(t *testing.T) {
	builder := NewAudioBuilder("in.mp3", "out.wav")
	builder.SetBinary(filepath.Join(t.TempDir(), "no-such-ffmpeg"))

	if err := builder.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestAudioBuilder_RunReportsStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary not supported on windows")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "ffmpeg")
	body := "#!/bin/sh\necho 'ffmpeg version test' >&2\necho 'in.mp3: Invalid data found when processing input' >&2\nexit 1\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}

	builder := NewAudioBuilder("in.mp3", filepath.Join(dir, "out.wav"))
	builder.SetBinary(script)

	err := builder.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing ffmpeg")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("error should carry last stderr line, got: %v", err)
	}
}

func TestAudioBuilder_RunSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary not supported on windows")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "ffmpeg")
	// Write the last argument (the output path) as a tiny file.
	body := "#!/bin/sh\nfor last; do :; done\nprintf 'RIFF' > \"$last\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}

	out := filepath.Join(dir, "out.wav")
	builder := NewAudioBuilder("in.mp3", out)
	builder.SetBinary(script)

	if err := builder.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not created: %v", err)
	}
}
