package transcript

import (
	"errors"
	"reflect"
	"testing"
)

const sampleLog = `alice:

时间: 2025-12-30 10:00:01

内容: first from alice

bob:
时间: 2025-12-30 10:00:05
内容: bob says alice: hi

alice:
时间: 2025-12-30 10:01:00
内容: second from alice

alice2:
时间: 2025-12-30 10:02:00
内容: not alice

malice:
时间: 2025-12-30 10:03:00
内容: also not alice
`

func TestExtractSingleLine(t *testing.T) {
	got, err := Extract(sampleLog, "alice", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"first from alice", "second from alice"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractScenarioA(t *testing.T) {
	log := "alice:\n时间: 10:00\n内容: [图片: x.png]hello [回复 u_1: 原消息]: world\n"

	got, err := Extract(log, "alice", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0] != "[图片: x.png]hello [回复 u_1: 原消息]: world" {
		t.Errorf("raw = %q", got[0])
	}
	if cleaned := Normalize(got[0]); cleaned != "hello world" {
		t.Errorf("cleaned = %q, want 'hello world'", cleaned)
	}
}

func TestExtractMissingSpeaker(t *testing.T) {
	got, err := Extract(sampleLog, "bob2", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %q", got)
	}
}

func TestExtractPrefixNames(t *testing.T) {
	log := "ann2:\n时间: 1\n内容: from ann2\n\nxann:\n时间: 2\n内容: from xann\n"

	got, err := Extract(log, "ann", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ann matched other speakers: %q", got)
	}

	got, err = Extract(log, "ann2", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0] != "from ann2" {
		t.Errorf("ann2 = %q, want [from ann2]", got)
	}
}

func TestExtractNameInsideBody(t *testing.T) {
	// bob's body mentions "alice:" but not as a record header.
	got, err := Extract(sampleLog, "bob", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0] != "bob says alice: hi" {
		t.Errorf("bob = %q", got)
	}
}

func TestExtractLiteralName(t *testing.T) {
	log := "a.b*(c):\n时间: 1\n内容: literal\n\naxb(c):\n时间: 2\n内容: wrong\n"

	got, err := Extract(log, "a.b*(c)", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0] != "literal" {
		t.Errorf("Extract = %q, want [literal]", got)
	}

	got, _ = Extract(log, "a.b", SingleLine)
	if len(got) != 0 {
		t.Errorf("a.b matched %q", got)
	}
}

func TestExtractEmptySpeaker(t *testing.T) {
	_, err := Extract(sampleLog, "", SingleLine)
	if !errors.Is(err, ErrEmptySpeaker) {
		t.Errorf("err = %v, want ErrEmptySpeaker", err)
	}
}

func TestExtractEmptyContent(t *testing.T) {
	log := "eve:\n时间: 1\n内容:\neve:\n时间: 2\n内容: after\n"

	for _, p := range []Policy{SingleLine, UntilNextRecord} {
		got, err := Extract(log, "eve", p)
		if err != nil {
			t.Fatalf("%s: Extract: %v", p, err)
		}
		want := []string{"", "after"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: Extract = %q, want %q", p, got, want)
		}
	}
}

func TestExtractUntilNextRecord(t *testing.T) {
	log := "carol:\n时间: 10:00\n内容: line one\nline two\nnext_speaker:\n时间: 10:01\n内容: other\n"

	got, err := Extract(log, "carol", UntilNextRecord)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0] != "line one\nline two" {
		t.Fatalf("raw = %q, want 'line one\\nline two'", got)
	}
	if cleaned := Normalize(got[0]); cleaned != "line one line two" {
		t.Errorf("cleaned = %q", cleaned)
	}

	single, _ := Extract(log, "carol", SingleLine)
	if len(single) != 1 || single[0] != "line one" {
		t.Errorf("single-line raw = %q, want [line one]", single)
	}
}

func TestExtractUntilNextRecordEndOfInput(t *testing.T) {
	log := "dan:\n时间: 1\n内容: tail one\ntail two: with colon inside\n\n"

	got, err := Extract(log, "dan", UntilNextRecord)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0] != "tail one\ntail two: with colon inside" {
		t.Errorf("raw = %q", got)
	}
}

func TestExtractUntilNextRecordBlankTail(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want string
	}{
		{"spaces line", "eve:\n时间: 1\n内容: a\n   \nbob:\n时间: 2\n内容: b\n", "a"},
		{"mixed blank lines", "eve:\n时间: 1\n内容: a\nb  \n \t\r\n\n  \n", "a\nb  "},
		{"crlf blank lines", "eve:\r\n时间: 1\r\n内容: a\r\n  \r\n\r\n", "a"},
		{"only blanks", "eve:\n时间: 1\n内容:\n  \n\t\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.log, "eve", UntilNextRecord)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("raw = %q, want [%q]", got, tt.want)
			}
		})
	}
}

func TestExtractCRLF(t *testing.T) {
	log := "frank:\r\n时间: 1\r\n内容: windows\r\nfrank:\r\n时间: 2\r\n内容: line\r\n"

	got, err := Extract(log, "frank", SingleLine)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"windows", "line"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractRecordsTimestamp(t *testing.T) {
	records, err := ExtractRecords(sampleLog, "alice", SingleLine)
	if err != nil {
		t.Fatalf("ExtractRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Timestamp != "2025-12-30 10:00:01" {
		t.Errorf("timestamp = %q", records[0].Timestamp)
	}
	if records[1].Speaker != "alice" {
		t.Errorf("speaker = %q", records[1].Speaker)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		err  bool
	}{
		{"", SingleLine, false},
		{"single-line", SingleLine, false},
		{"Until-Next-Record", UntilNextRecord, false},
		{"multi", UntilNextRecord, false},
		{"paragraph", SingleLine, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParsePolicy(%q) err = %v, want err %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
