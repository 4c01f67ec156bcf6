package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable the config layer reads
const EnvPrefix = "TELCONV_"

// MergeFromEnv overrides config values from TELCONV_* environment
// variables. Unset or empty variables leave the current value alone.
func (c *Config) MergeFromEnv() error {
	return c.mergeEnv(os.LookupEnv)
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errors []string
	setBool := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errors = append(errors, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errors = append(errors, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	setString("INPUT", &c.Input)
	setString("FFMPEG", &c.FFmpegPath)
	setString("INSTALL_DIR", &c.InstallDir)
	setBool("SEARCH_PATH", &c.SearchPath)
	setInt("WORKERS", &c.Workers)
	if v, ok := get("JOB_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%sJOB_TIMEOUT: %v", EnvPrefix, err))
		} else {
			c.JobTimeout = d
		}
	}
	if v, ok := get("EXTENSIONS"); ok {
		c.Extensions = splitList(v)
	}
	setString("AUDIO_CODEC", &c.Audio.Codec)
	setInt("AUDIO_SAMPLE_RATE", &c.Audio.SampleRate)
	setInt("AUDIO_CHANNELS", &c.Audio.Channels)
	setBool("VERBOSE", &c.Verbose)
	setString("LOG_FILE", &c.LogFile)
	setString("METRICS_FILE", &c.MetricsFile)
	setString("METRICS_ADDR", &c.MetricsAddr)

	if len(errors) > 0 {
		return fmt.Errorf("invalid environment:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}
