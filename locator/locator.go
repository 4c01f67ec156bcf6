// Package locator resolves the ffmpeg executable used by a batch.
//
// Resolution is an explicit dependency of the batch scheduler: callers pick a
// Locator at construction time and the scheduler asks it once per batch.
package locator

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrNotFound is returned when no usable ffmpeg binary can be located.
var ErrNotFound = errors.New("ffmpeg binary not found")

// Locator resolves the filesystem path of the transcoding binary.
type Locator interface {
	Locate() (string, error)
}

// Func adapts a plain function to the Locator interface.
type Func func() (string, error)

// Locate calls f.
func (f Func) Locate() (string, error) {
	return f()
}

// Static resolves to a fixed, user-supplied path.
type Static string

// Locate returns the path if it names an existing regular file.
func (s Static) Locate() (string, error) {
	path := string(s)
	if path == "" {
		return "", fmt.Errorf("%w: no path configured", ErrNotFound)
	}
	if !isFile(path) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return path, nil
}

// InstallDir looks for the bundled ffmpeg build shipped next to the
// application: <Dir>/ffmpeg/bin/ffmpeg (ffmpeg.exe on Windows).
type InstallDir struct {
	// Dir is the application's install location.
	Dir string

	// RequireProbe demands that ffprobe sits next to ffmpeg, which is how
	// the bundled builds are distributed.
	RequireProbe bool

	// SearchPath falls back to $PATH when the bundle is missing.
	SearchPath bool
}

// NewInstallDir creates an InstallDir locator that requires the full
// ffmpeg/ffprobe bundle and does not consult $PATH.
func NewInstallDir(dir string) *InstallDir {
	return &InstallDir{Dir: dir, RequireProbe: true}
}

// Locate returns the bundled ffmpeg path, or the one on $PATH when
// SearchPath is set.
func (l *InstallDir) Locate() (string, error) {
	if l.Dir != "" {
		binDir := filepath.Join(l.Dir, "ffmpeg", "bin")
		ffmpeg := filepath.Join(binDir, executableName("ffmpeg"))
		ffprobe := filepath.Join(binDir, executableName("ffprobe"))

		if isFile(ffmpeg) && (!l.RequireProbe || isFile(ffprobe)) {
			return ffmpeg, nil
		}
	}

	if l.SearchPath {
		if path, err := exec.LookPath("ffmpeg"); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: ensure the 'ffmpeg' folder is in %s", ErrNotFound, l.displayDir())
}

func (l *InstallDir) displayDir() string {
	if l.Dir == "" {
		return "the install location"
	}
	return l.Dir
}

// Chain tries each locator in order and returns the first hit.
type Chain []Locator

// Locate returns the first successful resolution. When all fail, the last
// error is returned.
func (c Chain) Locate() (string, error) {
	err := fmt.Errorf("%w: no locators configured", ErrNotFound)
	for _, l := range c {
		var path string
		if path, err = l.Locate(); err == nil {
			return path, nil
		}
	}
	return "", err
}

// ExecutableDir returns the directory holding the running executable with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
