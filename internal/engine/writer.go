package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// WriteResult describes what was written.
type WriteResult struct {
	Path    string `json:"path"`
	Bytes   int    `json:"bytes"`
	Chars   int    `json:"chars"`
	Records int    `json:"records"`
}

// WriteTranscript creates or overwrites path with content. The data lands in
// a temp file next to the destination and is renamed into place, so a failed
// write never leaves a partial transcript.
func WriteTranscript(path, content string, records int) (WriteResult, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return WriteResult{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return WriteResult{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return WriteResult{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return WriteResult{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return WriteResult{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	return WriteResult{
		Path:    path,
		Bytes:   len(content),
		Chars:   utf8.RuneCountInString(content),
		Records: records,
	}, nil
}
