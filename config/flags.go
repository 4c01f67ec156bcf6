package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// MergeFromFlags parses command-line flags and overrides config values
func (c *Config) MergeFromFlags() error {
	return c.MergeArgs(os.Args[1:])
}

// MergeArgs parses args as command-line flags and overrides config values.
// Positional arguments are appended to Files.
func (c *Config) MergeArgs(args []string) error {
	// Define flags
	fs := flag.NewFlagSet("telconv", flag.ContinueOnError)
	fs.Usage = printUsage

	// Inputs
	input := fs.String("input", "", "Folder whose audio files are converted")

	// Config file override (handled by LoadConfig before this function is called)
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")

	// ffmpeg discovery
	ffmpegPath := fs.String("ffmpeg", "", "Path to the ffmpeg binary (default: bundled ffmpeg/bin)")
	installDir := fs.String("install-dir", "", "Directory containing the ffmpeg/bin bundle")
	searchPath := fs.Bool("search-path", false, "Fall back to ffmpeg on $PATH")
	noSearchPath := fs.Bool("no-search-path", false, "Only use the bundled or explicit ffmpeg")

	// Execution settings
	workers := fs.Int("workers", -1, "Number of parallel conversions (0 = auto-detect, default: from config)")
	timeout := fs.Duration("timeout", -1, "Per-file conversion timeout, e.g. 5m (0 = none, default: from config)")
	extensions := fs.String("ext", "", "Comma-separated extensions picked up from -input (default: from config)")

	// Output layout
	outputDir := fs.String("output-dir", "", "Name of the output folder (default: converted)")
	archive := fs.String("archive", "", "Name of the zip archive (default: converted_files.zip)")
	outputExt := fs.String("output-ext", "", "Extension of converted files (default: .wav)")

	// Audio settings
	audioCodec := fs.String("audio-codec", "", "Audio codec (default: from config)")
	audioSampleRate := fs.Int("audio-sample-rate", -1, "Audio sample rate in Hz (default: from config)")
	audioChannels := fs.Int("audio-channels", -1, "Number of audio channels (default: from config)")
	audioFilter := fs.String("audio-filter", "", "ffmpeg audio filter chain, e.g. loudnorm (default: none)")

	// Behavioral flags
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	dryRun := fs.Bool("dry-run", false, "Show configuration without converting")
	logFile := fs.String("log-file", "", "Also write logs to this file")
	metricsFile := fs.String("metrics-file", "", "Write Prometheus metrics to this file after the batch")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address while converting")

	// Parse flags
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Override with flag values (only if explicitly set)
	if *input != "" {
		c.Input = *input
	}
	if rest := fs.Args(); len(rest) > 0 {
		c.Files = append(c.Files, rest...)
	}

	if *ffmpegPath != "" {
		c.FFmpegPath = *ffmpegPath
	}
	if *installDir != "" {
		c.InstallDir = *installDir
	}
	if *searchPath {
		c.SearchPath = true
	}
	if *noSearchPath {
		c.SearchPath = false
	}

	// Execution settings (only override if explicitly set, -1 means not set)
	if *workers >= 0 {
		c.Workers = *workers
	}
	if *timeout >= 0 {
		c.JobTimeout = *timeout
	}
	if *extensions != "" {
		c.Extensions = splitList(*extensions)
	}

	if *outputDir != "" {
		c.Output.DirName = *outputDir
	}
	if *archive != "" {
		c.Output.ArchiveName = *archive
	}
	if *outputExt != "" {
		c.Output.Extension = *outputExt
	}

	// Audio settings
	if *audioCodec != "" {
		c.Audio.Codec = *audioCodec
	}
	if *audioSampleRate > 0 {
		c.Audio.SampleRate = *audioSampleRate
	}
	if *audioChannels > 0 {
		c.Audio.Channels = *audioChannels
	}
	if *audioFilter != "" {
		c.Audio.Filters = []string{*audioFilter}
	}

	// Behavioral flags
	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}
	if *logFile != "" {
		c.LogFile = *logFile
	}
	if *metricsFile != "" {
		c.MetricsFile = *metricsFile
	}
	if *metricsAddr != "" {
		c.MetricsAddr = *metricsAddr
	}

	return nil
}

// splitList splits a comma-separated value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// printUsage prints help text
func printUsage() {
	fmt.Fprintf(os.Stderr, `telconv - Batch convert audio to 8kHz mono mu-law for telephony

USAGE:
  telconv -input DIR [OPTIONS]
  telconv [OPTIONS] FILE...

INPUTS:
  -input string
        Folder whose audio files are converted (non-recursive)
  FILE...
        Individual files; results go next to the first one

CONFIGURATION:
  -config string
        Path to config file (default: search ./telconv.yaml, ~/.telconv/config.yaml, /etc/telconv/config.yaml)

FFMPEG:
  -ffmpeg string
        Path to the ffmpeg binary
  -install-dir string
        Directory containing ffmpeg/bin/ffmpeg and ffprobe (default: next to telconv)
  --search-path
        Fall back to ffmpeg on $PATH (default: true)
  --no-search-path
        Only use the bundled or explicit ffmpeg

EXECUTION SETTINGS:
  -workers int
        Number of parallel conversions (0 = auto-detect CPU count) (default: 0)
  -timeout duration
        Per-file conversion timeout (default: 10m, 0 = none)
  -ext string
        Comma-separated extensions picked up from -input (default: .mp3,.wav,.m4a,.flac,.ogg,.aac,.wma)

OUTPUT:
  -output-dir string
        Output folder created next to the inputs (default: converted)
  -archive string
        Zip archive created next to the inputs (default: converted_files.zip)
  -output-ext string
        Extension of converted files (default: .wav)

AUDIO SETTINGS:
  -audio-codec string
        Audio codec (default: pcm_mulaw)
  -audio-sample-rate int
        Audio sample rate in Hz (default: 8000)
  -audio-channels int
        Number of audio channels (default: 1)
  -audio-filter string
        ffmpeg audio filter chain, e.g. loudnorm

BEHAVIORAL FLAGS:
  --verbose
        Enable verbose logging
  --dry-run
        Show effective configuration without converting
  -log-file string
        Also write logs to this file
  -metrics-file string
        Write Prometheus metrics (textfile format) after the batch
  -metrics-addr string
        Serve Prometheus metrics on this address while converting, e.g. :9108

EXAMPLES:
  # Convert every audio file in a folder
  telconv -input ./recordings

  # Convert selected files with 4 workers
  telconv -workers 4 call1.mp3 call2.m4a

  # Use a system ffmpeg and A-law instead of mu-law
  telconv -input ./recordings -ffmpeg /usr/bin/ffmpeg -audio-codec pcm_alaw

  # Show effective configuration
  telconv -input ./recordings --dry-run

CONFIGURATION FILES:
  Config files are searched in order:
    1. ./telconv.yaml
    2. ~/.telconv/config.yaml
    3. /etc/telconv/config.yaml

  Environment variables (TELCONV_*) and a .env file in the working
  directory are also honored.

  Priority: CLI flags > Environment > Config file > Defaults

`)
}

// PrintConfig prints the effective configuration
func (c *Config) PrintConfig() {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                 Effective Configuration                  ")
	fmt.Println("═══════════════════════════════════════════════════════════")
	if c.Input != "" {
		fmt.Printf("Input folder:   %s\n", c.Input)
	}
	if len(c.Files) > 0 {
		fmt.Printf("Input files:    %d\n", len(c.Files))
	}
	fmt.Printf("Workers:        %d\n", c.Workers)
	if c.JobTimeout > 0 {
		fmt.Printf("Job timeout:    %s\n", c.JobTimeout)
	} else {
		fmt.Println("Job timeout:    none")
	}
	fmt.Printf("Extensions:     %s\n", strings.Join(c.Extensions, ", "))

	fmt.Println("\nFFmpeg:")
	if c.FFmpegPath != "" {
		fmt.Printf("  Binary:       %s\n", c.FFmpegPath)
	}
	if c.InstallDir != "" {
		fmt.Printf("  Install dir:  %s\n", c.InstallDir)
	} else {
		fmt.Println("  Install dir:  (next to executable)")
	}
	fmt.Printf("  Search PATH:  %v\n", c.SearchPath)

	fmt.Println("\nOutput:")
	fmt.Printf("  Folder:       %s\n", c.Output.DirName)
	fmt.Printf("  Archive:      %s\n", c.Output.ArchiveName)
	fmt.Printf("  Extension:    %s\n", c.Output.Extension)

	fmt.Println("\nAudio Settings:")
	codec := c.Audio.Codec
	if !IsKnownCodec(codec) {
		codec += " (custom)"
	}
	fmt.Printf("  Codec:        %s\n", codec)
	fmt.Printf("  Sample Rate:  %d Hz\n", c.Audio.SampleRate)
	fmt.Printf("  Channels:     %d\n", c.Audio.Channels)
	if len(c.Audio.Filters) > 0 {
		fmt.Printf("  Filters:      %s\n", strings.Join(c.Audio.Filters, ","))
	}

	fmt.Println("\nBehavioral Flags:")
	fmt.Printf("  Verbose:       %v\n", c.Verbose)
	if c.LogFile != "" {
		fmt.Printf("  Log file:      %s\n", c.LogFile)
	}
	if c.MetricsFile != "" {
		fmt.Printf("  Metrics file:  %s\n", c.MetricsFile)
	}
	if c.MetricsAddr != "" {
		fmt.Printf("  Metrics addr:  %s\n", c.MetricsAddr)
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}
