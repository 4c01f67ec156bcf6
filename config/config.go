package config

import "time"

// Config holds all converter configuration options
type Config struct {
	// Inputs: a folder to scan and/or explicit files
	Input string   `yaml:"input"`
	Files []string `yaml:"files"`

	// ffmpeg discovery
	FFmpegPath string `yaml:"ffmpeg_path"` // explicit binary, tried first
	InstallDir string `yaml:"install_dir"` // directory holding ffmpeg/bin (empty = next to the executable)
	SearchPath bool   `yaml:"search_path"` // fall back to $PATH

	// Execution settings
	Workers    int           `yaml:"workers"`     // 0 = auto-detect
	JobTimeout time.Duration `yaml:"job_timeout"` // per-file limit, 0 = none
	Extensions []string      `yaml:"extensions"`  // accepted when scanning Input

	// Output layout
	Output OutputConfig `yaml:"output"`

	// Audio settings
	Audio AudioConfig `yaml:"audio"`

	// Behavioral flags
	Verbose     bool   `yaml:"verbose"`      // Show detailed logs
	DryRun      bool   `yaml:"dry_run"`      // Show config without converting
	LogFile     string `yaml:"log_file"`     // Also write logs here
	MetricsFile string `yaml:"metrics_file"` // Prometheus textfile written after the batch
	MetricsAddr string `yaml:"metrics_addr"` // Serve /metrics here while converting, e.g. ":9108"
}

// OutputConfig controls where results land, relative to the first input
type OutputConfig struct {
	DirName     string `yaml:"dir_name"`     // e.g., "converted"
	ArchiveName string `yaml:"archive_name"` // e.g., "converted_files.zip"
	Extension   string `yaml:"extension"`    // e.g., ".wav"
}

// AudioConfig holds audio conversion settings
type AudioConfig struct {
	Codec      string   `yaml:"codec"`       // e.g., "pcm_mulaw", "pcm_alaw"
	SampleRate int      `yaml:"sample_rate"` // e.g., 8000, 16000
	Channels   int      `yaml:"channels"`    // 1 (mono), 2 (stereo)
	Filters    []string `yaml:"filters"`     // ffmpeg -af filters, e.g., "loudnorm"
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		// Inputs - must be provided by user
		Input: "",
		Files: nil,

		// Discovery: bundled ffmpeg next to the executable
		FFmpegPath: "",
		InstallDir: "",
		SearchPath: true,

		// Execution settings
		Workers:    0,                // Auto-detect CPU count
		JobTimeout: 10 * time.Minute, // Generous for long call recordings
		Extensions: []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".aac", ".wma"},

		Output: OutputConfig{
			DirName:     "converted",
			ArchiveName: "converted_files.zip",
			Extension:   ".wav",
		},

		// Audio defaults (telephony: G.711 mu-law, 8kHz mono)
		Audio: AudioConfig{
			Codec:      "pcm_mulaw",
			SampleRate: 8000,
			Channels:   1,
		},

		// Behavioral defaults
		Verbose: false,
		DryRun:  false,
	}
}

// Copy creates a deep copy of the config
func (c *Config) Copy() *Config {
	copy := *c
	copy.Files = append([]string(nil), c.Files...)
	copy.Extensions = append([]string(nil), c.Extensions...)
	copy.Audio.Filters = append([]string(nil), c.Audio.Filters...)
	return &copy
}

// CodecValues returns the telephony codecs known to work with the
// default .wav container
func CodecValues() []string {
	return []string{"pcm_mulaw", "pcm_alaw", "pcm_s16le", "pcm_u8"}
}

// IsKnownCodec checks if codec is one of CodecValues
func IsKnownCodec(codec string) bool {
	for _, known := range CodecValues() {
		if codec == known {
			return true
		}
	}
	return false
}
