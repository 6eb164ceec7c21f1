package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoContent means nothing survived cleaning, so there is nothing to write.
var ErrNoContent = errors.New("no content survived cleaning")

// Format selects how cleaned messages are joined into a transcript.
type Format int

const (
	// SingleLineFormat joins messages with ':' and no trailing newline.
	SingleLineFormat Format = iota
	// MultiLineFormat puts one message per line.
	MultiLineFormat
)

func (f Format) String() string {
	switch f {
	case SingleLineFormat:
		return "single-line"
	case MultiLineFormat:
		return "multi-line"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Joiner returns the separator placed between messages.
func (f Format) Joiner() string {
	if f == MultiLineFormat {
		return "\n"
	}
	return ":"
}

// ParseFormat converts a config/flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-line", "single", "colon":
		return SingleLineFormat, nil
	case "multi-line", "multi", "lines", "newline":
		return MultiLineFormat, nil
	}
	return SingleLineFormat, fmt.Errorf("unknown output format %q", s)
}

// Assemble joins the non-empty messages with joiner. It returns ErrNoContent
// instead of an empty transcript.
func Assemble(messages []string, joiner string) (string, error) {
	kept := NonEmpty(messages)
	if len(kept) == 0 {
		return "", ErrNoContent
	}
	return strings.Join(kept, joiner), nil
}

// NonEmpty drops empty messages, preserving order.
func NonEmpty(messages []string) []string {
	kept := make([]string, 0, len(messages))
	for _, m := range messages {
		if m != "" {
			kept = append(kept, m)
		}
	}
	return kept
}

// Dedupe keeps the first item for each key. It changes the multiplicity of
// the transcript and is only applied when asked for.
func Dedupe[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Split reverses Assemble for a written transcript: it splits on the
// format's joiner and drops blank segments.
func Split(text string, f Format) []string {
	var segments []string
	for _, s := range strings.Split(strings.TrimSpace(text), f.Joiner()) {
		s = strings.TrimSpace(s)
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
