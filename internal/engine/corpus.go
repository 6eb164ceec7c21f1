package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lazypower/monologue/internal/transcript"
)

// Corpus is a transcript read back from disk.
type Corpus struct {
	Path     string   `json:"path"`
	Text     string   `json:"-"`
	Segments []string `json:"segments"`
}

// LoadCorpus reads a written transcript and splits it into messages. JSON
// files are flattened instead: an array of strings, or of objects carrying a
// "content" or "message" string.
func LoadCorpus(path string, f transcript.Format) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrInputRead, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		segments, err := FlattenJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInputRead, path, err)
		}
		return &Corpus{Path: path, Text: strings.Join(segments, "\n"), Segments: segments}, nil
	}

	text := string(data)
	return &Corpus{Path: path, Text: text, Segments: transcript.Split(text, f)}, nil
}

// LoadCorpusWithFallback tries path first and then the same name with a
// .json extension.
func LoadCorpusWithFallback(path string, f transcript.Format) (*Corpus, error) {
	c, err := LoadCorpus(path, f)
	if err == nil || !errors.Is(err, ErrInputNotFound) {
		return c, err
	}
	alt := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	if alt == path {
		return nil, err
	}
	if c, altErr := LoadCorpus(alt, f); altErr == nil {
		return c, nil
	}
	return nil, err
}

// FlattenJSON extracts message strings from a JSON array.
func FlattenJSON(data []byte) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}

	var out []string
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}

		var obj struct {
			Content *string `json:"content"`
			Message *string `json:"message"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			continue
		}
		switch {
		case obj.Content != nil && *obj.Content != "":
			out = append(out, *obj.Content)
		case obj.Message != nil && *obj.Message != "":
			out = append(out, *obj.Message)
		}
	}
	return out, nil
}
