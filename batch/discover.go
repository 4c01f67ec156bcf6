package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the audio types picked up when selecting a folder.
var DefaultExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".aac", ".wma"}

// Discover lists the regular files directly inside dir whose extension
// matches one of extensions, case-insensitively, sorted by path. An empty
// extensions list accepts every file.
func Discover(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
