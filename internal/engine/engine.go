package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/lazypower/monologue/internal/store"
	"github.com/lazypower/monologue/internal/transcript"
	"github.com/sirupsen/logrus"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configure one extraction.
type Options struct {
	Input   string
	Speaker string
	Output  string
	Policy  transcript.Policy
	Format  transcript.Format
	Dedupe  bool
	Preview int
}

// Message is one cleaned message together with its record's timestamp.
type Message struct {
	Timestamp string `json:"timestamp,omitempty"`
	Text      string `json:"text"`
}

// Result summarizes an extraction. Counts are filled in even when Run or
// Process returns a warning error.
type Result struct {
	Speaker    string      `json:"speaker"`
	Matched    int         `json:"matched"`
	Kept       int         `json:"kept"`
	Dropped    int         `json:"dropped"`
	Duplicates int         `json:"duplicates,omitempty"`
	Messages   []Message   `json:"messages"`
	Transcript string      `json:"transcript"`
	Preview    []string    `json:"preview,omitempty"`
	Written    WriteResult `json:"written"`
	RunID      int64       `json:"run_id,omitempty"`
}

// Texts returns the cleaned message bodies in order.
func (r *Result) Texts() []string {
	out := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = m.Text
	}
	return out
}

// Archive records successful runs. *store.DB satisfies it.
type Archive interface {
	SaveRun(run *store.Run, messages []store.Message) (int64, error)
}

// Engine runs the extract, normalize, assemble and write pipeline.
type Engine struct {
	Log     logrus.FieldLogger
	Archive Archive // optional
}

// New creates a new Engine. A nil logger discards diagnostics.
func New(log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{Log: log}
}

// Run reads opts.Input, processes it and writes the transcript to
// opts.Output. On any error nothing is written.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	log, err := ReadLog(opts.Input)
	if err != nil {
		return nil, err
	}

	res, err := e.Process(log, opts)
	if err != nil {
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Written, err = WriteTranscript(opts.Output, res.Transcript, res.Kept)
	if err != nil {
		return res, err
	}

	if e.Archive != nil {
		id, err := e.Archive.SaveRun(&store.Run{
			InputPath:  opts.Input,
			Speaker:    opts.Speaker,
			OutputPath: opts.Output,
			Policy:     opts.Policy.String(),
			Format:     opts.Format.String(),
			Deduped:    opts.Dedupe,
			Matched:    res.Matched,
			Kept:       res.Kept,
			Bytes:      res.Written.Bytes,
		}, toStoreMessages(res.Messages))
		if err != nil {
			// The transcript is already on disk; a failed archive is not a failed run.
			e.Log.WithError(err).Warn("archive run failed")
		} else {
			res.RunID = id
		}
	}

	return res, nil
}

// Process runs the pipeline over an in-memory log without touching disk.
func (e *Engine) Process(log string, opts Options) (*Result, error) {
	records, err := transcript.ExtractRecords(log, opts.Speaker, opts.Policy)
	if err != nil {
		return nil, err
	}

	res := &Result{Speaker: opts.Speaker, Matched: len(records)}
	if len(records) == 0 {
		return res, fmt.Errorf("%w: %q", ErrNoMatches, opts.Speaker)
	}

	msgs := make([]Message, 0, len(records))
	for i, r := range records {
		text := transcript.Normalize(r.Body)
		if text == "" {
			e.Log.WithFields(logrus.Fields{"speaker": opts.Speaker, "record": i}).Debug("record empty after cleaning")
			res.Dropped++
			continue
		}
		msgs = append(msgs, Message{Timestamp: r.Timestamp, Text: text})
	}

	if opts.Dedupe {
		before := len(msgs)
		msgs = transcript.Dedupe(msgs, func(m Message) string { return m.Text })
		res.Duplicates = before - len(msgs)
	}

	res.Messages = msgs
	res.Kept = len(msgs)

	res.Transcript, err = transcript.Assemble(res.Texts(), opts.Format.Joiner())
	if errors.Is(err, transcript.ErrNoContent) {
		return res, fmt.Errorf("%w: %q (%d matched)", ErrAllContentFiltered, opts.Speaker, res.Matched)
	}
	if err != nil {
		return res, err
	}

	res.Preview = transcript.Preview(res.Texts(), opts.Preview)
	return res, nil
}

// ReadLog loads the whole input file. It strips a UTF-8 byte order mark and
// rejects input that is not valid UTF-8.
func ReadLog(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return "", fmt.Errorf("%w: %w", ErrInputRead, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputRead, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrInputRead, path)
	}
	return string(data), nil
}

func toStoreMessages(msgs []Message) []store.Message {
	out := make([]store.Message, len(msgs))
	for i, m := range msgs {
		out[i] = store.Message{Position: i, Timestamp: m.Timestamp, Body: m.Text}
	}
	return out
}
