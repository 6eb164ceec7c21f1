package transcript

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Field labels used by the chat export. They are literal markers, not
// translated at runtime.
const (
	TimeLabel    = "时间:"
	ContentLabel = "内容:"
)

// ErrEmptySpeaker is returned when extraction is asked for an empty name.
var ErrEmptySpeaker = errors.New("speaker name is empty")

// Policy decides where a record's content field ends.
type Policy int

const (
	// SingleLine ends the content at the next newline.
	SingleLine Policy = iota
	// UntilNextRecord lets the content span lines until the next line that
	// looks like a record header, or end of input.
	UntilNextRecord
)

func (p Policy) String() string {
	switch p {
	case SingleLine:
		return "single-line"
	case UntilNextRecord:
		return "until-next-record"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts a config/flag value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-line", "single", "singleline":
		return SingleLine, nil
	case "until-next-record", "multi", "multi-line", "multiline":
		return UntilNextRecord, nil
	}
	return SingleLine, fmt.Errorf("unknown extraction policy %q", s)
}

// Record is one speaker-attributed unit of the log.
type Record struct {
	Speaker   string
	Timestamp string // opaque
	Body      string
}

// recordStartRe matches a line that opens any record: a non-empty token
// without colons, a colon, then the end of the line.
var recordStartRe = regexp.MustCompile(`(?m)^[^:\r\n]+:[ \t]*\r?$`)

// headerPattern builds the header regexp for one speaker. Group 1 is the
// timestamp. The match ends right where the content field begins.
func headerPattern(speaker string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(speaker) + `:[ \t]*\r?\n` +
		`\s*` + regexp.QuoteMeta(TimeLabel) + `[ \t]*([^\r\n]*)\r?\n` +
		`\s*` + regexp.QuoteMeta(ContentLabel) + `[ \t]*`)
}

// ExtractRecords returns every record attributed to speaker, in document
// order.
func ExtractRecords(log, speaker string, policy Policy) ([]Record, error) {
	if speaker == "" {
		return nil, ErrEmptySpeaker
	}

	re := headerPattern(speaker)
	var records []Record
	for _, loc := range re.FindAllStringSubmatchIndex(log, -1) {
		records = append(records, Record{
			Speaker:   speaker,
			Timestamp: strings.TrimSpace(log[loc[2]:loc[3]]),
			Body:      contentAt(log, loc[1], policy),
		})
	}
	return records, nil
}

// Extract returns the raw content field of every record attributed to
// speaker. A missing speaker yields an empty slice, not an error.
func Extract(log, speaker string, policy Policy) ([]string, error) {
	records, err := ExtractRecords(log, speaker, policy)
	if err != nil {
		return nil, err
	}
	bodies := make([]string, 0, len(records))
	for _, r := range records {
		bodies = append(bodies, r.Body)
	}
	return bodies, nil
}

// contentAt slices the content field starting at offset start.
func contentAt(log string, start int, policy Policy) string {
	rest := log[start:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return strings.TrimRight(rest, "\r")
	}
	if policy == SingleLine {
		return strings.TrimRight(rest[:nl], "\r")
	}

	// The first line can never be a record start: it follows "内容:".
	end := len(rest)
	if loc := recordStartRe.FindStringIndex(rest[nl+1:]); loc != nil {
		end = nl + 1 + loc[0]
	}
	return trimBlankTail(rest[:end])
}

// trimBlankTail drops trailing line breaks and lines holding only
// whitespace. Whitespace inside the last non-blank line is kept.
func trimBlankTail(s string) string {
	s = strings.TrimRight(s, "\r\n")
	for {
		i := strings.LastIndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[i+1:]) != "" {
			return s
		}
		s = strings.TrimRight(s[:i], "\r\n")
	}
}
