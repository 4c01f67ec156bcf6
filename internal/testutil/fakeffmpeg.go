// Package testutil provides helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeFFmpeg mimics `ffmpeg -i <in> ... <out>`, keyed on the input's base name:
//   - inputs whose name contains "bad" exit 1 with an ffmpeg-like error
//   - inputs whose name contains "partial" write a WAV header, then exit 1
//   - inputs whose name contains "slow" write a WAV header, then sleep for 5s
//   - inputs whose name contains "noout" exit 0 without writing output
//   - everything else writes an output one tenth the size of the input
const fakeFFmpeg = `#!/bin/sh
in=""
prev=""
for arg; do
	if [ "$prev" = "-i" ]; then in="$arg"; fi
	prev="$arg"
	last="$arg"
done
case "$(basename "$in")" in
	*bad*) echo "$in: Invalid data found when processing input" >&2; exit 1 ;;
	*partial*) printf RIFF > "$last"; echo "$in: Error while decoding stream" >&2; exit 1 ;;
	*slow*) printf RIFF > "$last"; exec sleep 5 ;;
	*noout*) exit 0 ;;
esac
size=$(wc -c < "$in")
head -c $((size / 10)) /dev/zero > "$last"
`

// FakeFFmpeg writes an executable shell script standing in for ffmpeg into
// a fresh temp dir and returns its path. Tests are skipped on Windows.
func FakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg is a shell script")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(fakeFFmpeg), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

// WriteSized creates dir/name filled with size zero bytes and returns its path.
func WriteSized(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
