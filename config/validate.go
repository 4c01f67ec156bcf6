package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	// Inputs: a folder, explicit files, or both
	if c.Input == "" && len(c.Files) == 0 {
		errors = append(errors, "no input: provide -input DIR or one or more files")
	}
	if c.Input != "" {
		if info, err := os.Stat(c.Input); err != nil {
			errors = append(errors, fmt.Sprintf("input folder does not exist: %s", c.Input))
		} else if !info.IsDir() {
			errors = append(errors, fmt.Sprintf("input is not a folder: %s", c.Input))
		}
	}
	for _, f := range c.Files {
		if info, err := os.Stat(f); err != nil {
			errors = append(errors, fmt.Sprintf("input file does not exist: %s", f))
		} else if info.IsDir() {
			errors = append(errors, fmt.Sprintf("input file is a folder: %s", f))
		}
	}

	// Validate workers (0 is valid, means auto-detect)
	if c.Workers < 0 {
		errors = append(errors, "workers cannot be negative (use 0 for auto-detect)")
	}

	if c.JobTimeout < 0 {
		errors = append(errors, "job timeout cannot be negative (use 0 for none)")
	}

	if c.Input != "" && len(c.Extensions) == 0 {
		errors = append(errors, "at least one extension is required when scanning a folder")
	}

	// Validate output layout
	if err := c.Output.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("output config: %v", err))
	}

	// Validate audio config
	if err := c.Audio.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("audio config: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Validate checks if output configuration is valid
func (oc *OutputConfig) Validate() error {
	var errors []string

	if !isPlainName(oc.DirName) {
		errors = append(errors, "dir name must be a plain folder name")
	}

	if !isPlainName(oc.ArchiveName) {
		errors = append(errors, "archive name must be a plain file name")
	}

	if oc.Extension == "" || oc.Extension == "." {
		errors = append(errors, "extension is required")
	} else if strings.ContainsAny(oc.Extension, `/\`) {
		errors = append(errors, "extension cannot contain path separators")
	}

	if oc.DirName != "" && oc.DirName == oc.ArchiveName {
		errors = append(errors, "dir name and archive name must differ")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}

// Validate checks if audio configuration is valid
func (ac *AudioConfig) Validate() error {
	var errors []string

	if ac.Codec == "" {
		errors = append(errors, "codec is required")
	}

	if ac.SampleRate <= 0 {
		errors = append(errors, "sample rate must be positive")
	}

	if ac.Channels <= 0 {
		errors = append(errors, "channels must be positive")
	} else if ac.Channels > 8 {
		errors = append(errors, "channels cannot exceed 8")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}

// isPlainName checks that name is a single path element (e.g., "converted")
func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
