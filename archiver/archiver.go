// Package archiver bundles a batch's output directory into one zip file.
package archiver

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Archive writes every regular file directly inside outputDir into a fresh
// deflate-compressed zip at archivePath and returns the number of entries.
//
// Entries are named by base name only (a flat archive) and are written in
// lexical order. Subdirectories are not descended into. An empty outputDir
// still produces a valid, empty archive. On any error the partially written
// archive is removed.
func Archive(outputDir, archivePath string) (int, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	f, err := os.OpenFile(archivePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}

	n, err := writeEntries(f, outputDir, files)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close archive: %w", closeErr)
	}
	if err != nil {
		os.Remove(archivePath)
		return 0, err
	}
	return n, nil
}

func writeEntries(w io.Writer, dir string, names []string) (int, error) {
	zw := zip.NewWriter(w)
	for i, name := range names {
		if err := addFile(zw, filepath.Join(dir, name)); err != nil {
			zw.Close()
			return i, fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return len(names), nil
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// Entries lists the entry names stored in the zip at archivePath, in
// archive order.
func Entries(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}
