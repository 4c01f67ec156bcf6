// Package logging builds the zap logger used by the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr, and additionally to
// logFile when it is non-empty. verbose lowers the level to debug.
func New(verbose bool, logFile string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	outputs := []string{"stderr"}
	if logFile != "" {
		outputs = append(outputs, logFile)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     !verbose,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("telconv"), nil
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return enc
}
