package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/store"
)

func TestSuccess(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, &engine.Result{
		Speaker:    "alice",
		Matched:    3,
		Kept:       2,
		Dropped:    1,
		Duplicates: 1,
		Preview:    []string{"hello world"},
		Written:    engine.WriteResult{Path: "out.txt", Bytes: 2048, Chars: 1500, Records: 2},
		RunID:      7,
	})

	out := buf.String()
	for _, want := range []string{
		`extracted 2 messages for "alice" to out.txt`,
		"3 matched, 1 empty after cleaning",
		"1 duplicates removed",
		"1,500 chars",
		"2.0 kB",
		"run #7",
		"hello world",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWarningAndError(t *testing.T) {
	var buf bytes.Buffer
	Warning(&buf, errors.New("nothing for bob"))
	Error(&buf, errors.New("disk full"))

	out := buf.String()
	if !strings.Contains(out, "nothing for bob") || !strings.Contains(out, "disk full") {
		t.Errorf("output = %q", out)
	}
}

func TestCorpus(t *testing.T) {
	var buf bytes.Buffer
	text := strings.Repeat("字", 150)
	Corpus(&buf, "1.txt", text, []string{"a", "b"})

	out := buf.String()
	if !strings.Contains(out, "150 chars") {
		t.Errorf("missing size: %s", out)
	}
	if !strings.Contains(out, strings.Repeat("字", 100)+"...") || strings.Contains(out, strings.Repeat("字", 101)) {
		t.Errorf("head not cut at 100 chars: %s", out)
	}
	if !strings.Contains(out, "segments:") || !strings.HasSuffix(out, " 2\n") {
		t.Errorf("missing segments: %s", out)
	}
}

func TestRunsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Runs(&buf, nil)
	if !strings.Contains(buf.String(), "No archived runs.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	Messages(&buf, &store.Run{ID: 3, Speaker: "alice", Policy: "single-line", Format: "multi-line"},
		[]store.Message{{Timestamp: "10:00", Body: "hello"}, {Body: "bare"}})

	out := buf.String()
	for _, want := range []string{"run #3: alice", "[10:00]", "hello", "bare"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
