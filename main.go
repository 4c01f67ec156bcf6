package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"telconv/batch"
	"telconv/config"
	"telconv/internal/logging"
	"telconv/internal/timeutil"
	"telconv/locator"
	"telconv/metrics"
	"telconv/models"
	"telconv/reporter"
)

// Exit codes
const (
	exitOK          = 0
	exitFatal       = 1
	exitPartial     = 2
	exitInterrupted = 130 // Standard exit code for SIGINT
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Seed the environment from .env if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠️  Ignoring .env: %v\n", err)
	}

	// Step 2: Load configuration (CLI flags > env > config file > defaults)
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		return exitFatal
	}

	// Step 3: Handle dry-run mode
	if cfg.DryRun {
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("                      DRY RUN MODE")
		fmt.Println("═══════════════════════════════════════════════════════════")
		cfg.PrintConfig()
		fmt.Println("\n✓ Configuration is valid. No conversion will be performed.")
		return exitOK
	}

	logger, err := logging.New(cfg.Verbose, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Logging error: %v\n", err)
		return exitFatal
	}
	defer logger.Sync()

	// Step 4: Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 5: Register signal handlers (Ctrl+C, SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\n\n⚠️  Interrupt received, stopping conversions...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Step 6: Run the batch
	m := metrics.New()
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, m, logger)
		defer stop()
	}
	code := runBatch(ctx, cfg, logger, m)

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}
	return code
}

// serveMetrics exposes /metrics for the lifetime of the batch. The returned
// func shuts the server down.
func serveMetrics(addr string, m *metrics.Metrics, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// runBatch resolves inputs, converts them and prints the final report
func runBatch(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) int {
	inputs, err := collectInputs(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitFatal
	}

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  TELCONV - BATCH CONVERSION                    ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("Files:   %d\n", len(inputs))
	fmt.Printf("Format:  %s, %d Hz, %d channel(s)\n", cfg.Audio.Codec, cfg.Audio.SampleRate, cfg.Audio.Channels)
	fmt.Printf("Workers: %d\n", cfg.Workers)
	fmt.Println()

	scheduler := batch.NewScheduler(buildLocator(cfg)).
		SetWorkers(cfg.Workers).
		SetJobTimeout(cfg.JobTimeout).
		SetAudio(cfg.Audio.Codec, cfg.Audio.SampleRate, cfg.Audio.Channels).
		SetFilters(cfg.Audio.Filters).
		SetOutputLayout(cfg.Output.DirName, cfg.Output.ArchiveName, cfg.Output.Extension).
		SetMetrics(m).
		SetLogger(logger)

	summary, err := scheduler.RunBatch(ctx, inputs, reporter.NewConsole(os.Stdout))
	if summary != nil {
		printSummary(summary)
	}

	switch {
	case err == nil && summary.AllSucceeded():
		return exitOK
	case err == nil:
		return exitPartial
	case errors.Is(err, context.Canceled):
		fmt.Println("\n⚠️  Conversion cancelled by user")
		return exitInterrupted
	case errors.Is(err, batch.ErrArchive):
		return exitPartial
	default:
		return exitFatal
	}
}

// collectInputs gathers files from the input folder followed by any
// explicitly listed files
func collectInputs(cfg *config.Config) ([]string, error) {
	var inputs []string
	if cfg.Input != "" {
		found, err := batch.Discover(cfg.Input, cfg.Extensions)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, found...)
	}
	inputs = append(inputs, cfg.Files...)
	return inputs, nil
}

// buildLocator resolves ffmpeg: explicit path first, then the bundled
// ffmpeg/bin folder, then $PATH when enabled
func buildLocator(cfg *config.Config) locator.Locator {
	var chain locator.Chain
	if cfg.FFmpegPath != "" {
		chain = append(chain, locator.Static(cfg.FFmpegPath))
	}

	dir := cfg.InstallDir
	if dir == "" {
		if exeDir, err := locator.ExecutableDir(); err == nil {
			dir = exeDir
		}
	}
	bundle := locator.NewInstallDir(dir)
	bundle.SearchPath = cfg.SearchPath
	chain = append(chain, bundle)

	return chain
}

// printSummary prints the final batch report
func printSummary(s *models.BatchSummary) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	if s.AllSucceeded() {
		fmt.Println("                     ✅ SUCCESS!")
	} else {
		fmt.Println("                 ⚠️  COMPLETED WITH ERRORS")
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Batch:           %s\n", s.ID)
	fmt.Printf("  Converted:       %d\n", s.Converted)
	fmt.Printf("  Failed:          %d\n", s.Failed)
	fmt.Printf("  Size reduction:  %.2f MB\n", s.SizeReductionMB)
	fmt.Printf("  Time taken:      %s\n", timeutil.FormatElapsed(s.ElapsedSeconds))
	fmt.Printf("  Output folder:   %s\n", s.OutputDir)
	if s.ArchivePath != "" {
		fmt.Printf("  Archive:         %s (%d files)\n", s.ArchivePath, s.ArchiveEntries)
	}
	for _, f := range s.Failures {
		fmt.Printf("  ✗ %s\n", filepath.Base(f))
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
}
