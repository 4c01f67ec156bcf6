package config

import (
	"strings"
	"testing"
	"time"
)

func TestMergeFromEnv(t *testing.T) {
	t.Setenv("TELCONV_INPUT", "/srv/recordings")
	t.Setenv("TELCONV_FFMPEG", "/usr/local/bin/ffmpeg")
	t.Setenv("TELCONV_WORKERS", "3")
	t.Setenv("TELCONV_JOB_TIMEOUT", "45s")
	t.Setenv("TELCONV_SEARCH_PATH", "false")
	t.Setenv("TELCONV_EXTENSIONS", ".mp3,.wav")
	t.Setenv("TELCONV_AUDIO_CODEC", "pcm_alaw")
	t.Setenv("TELCONV_VERBOSE", "1")

	cfg := DefaultConfig()
	if err := cfg.MergeFromEnv(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Input != "/srv/recordings" {
		t.Errorf("Expected input '/srv/recordings', got '%s'", cfg.Input)
	}
	if cfg.FFmpegPath != "/usr/local/bin/ffmpeg" {
		t.Errorf("Expected ffmpeg path, got '%s'", cfg.FFmpegPath)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", cfg.Workers)
	}
	if cfg.JobTimeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %s", cfg.JobTimeout)
	}
	if cfg.SearchPath {
		t.Error("Expected search path false")
	}
	if len(cfg.Extensions) != 2 {
		t.Errorf("Expected 2 extensions, got %v", cfg.Extensions)
	}
	if cfg.Audio.Codec != "pcm_alaw" {
		t.Errorf("Expected codec 'pcm_alaw', got '%s'", cfg.Audio.Codec)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose true")
	}
}

func TestMergeFromEnv_EmptyIgnored(t *testing.T) {
	t.Setenv("TELCONV_WORKERS", "")
	t.Setenv("TELCONV_AUDIO_CODEC", "   ")

	cfg := DefaultConfig()
	cfg.Workers = 5
	if err := cfg.MergeFromEnv(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Workers != 5 {
		t.Errorf("Expected workers preserved at 5, got %d", cfg.Workers)
	}
	if cfg.Audio.Codec != "pcm_mulaw" {
		t.Errorf("Expected default codec, got '%s'", cfg.Audio.Codec)
	}
}

func TestMergeFromEnv_InvalidValues(t *testing.T) {
	env := map[string]string{
		"TELCONV_WORKERS":     "many",
		"TELCONV_JOB_TIMEOUT": "forever",
		"TELCONV_VERBOSE":     "sometimes",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	err := cfg.mergeEnv(lookup)
	if err == nil {
		t.Fatal("Expected error for invalid environment")
	}
	for _, name := range []string{"TELCONV_WORKERS", "TELCONV_JOB_TIMEOUT", "TELCONV_VERBOSE"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Expected error to mention %s, got '%s'", name, err.Error())
		}
	}
}
