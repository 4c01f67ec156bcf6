package config

import (
	"fmt"
	"os"
	"runtime"
)

// LoadConfig loads configuration with priority:
// CLI flags > Environment > Config file > Defaults
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Check if -config flag was provided (quick parse to extract it)
	configPath := ""
	for i, arg := range args {
		if (arg == "-config" || arg == "--config") && i+1 < len(args) {
			configPath = args[i+1]
			break
		}
	}

	// If no config flag, try to find config file in standard locations
	if configPath == "" {
		configPath = FindConfigFile()
	}

	// Load config file if found
	if configPath != "" {
		fileCfg, err := LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		// Merge file config (overwrites defaults)
		cfg = fileCfg
	}

	// 3. Environment (TELCONV_*, possibly seeded from .env by main)
	if err := cfg.MergeFromEnv(); err != nil {
		return nil, err
	}

	// 4. Merge CLI flags (highest priority, overwrites everything)
	if err := cfg.MergeArgs(args); err != nil {
		return nil, err
	}

	// Auto-detect workers if set to 0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Validate final configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
