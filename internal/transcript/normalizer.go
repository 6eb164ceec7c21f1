package transcript

import (
	"regexp"
	"strings"
)

// Rule is one noise-removal step: every match of Pattern is replaced with
// Replace.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// MediaKeywords is the bracketed annotation vocabulary the chat export uses
// for non-text content: image, file, video, voice, sticker, animated sticker.
var MediaKeywords = []string{"图片", "文件", "视频", "语音", "表情", "动画表情"}

// ReplyKeyword opens a quoted-reply header.
const ReplyKeyword = "回复"

var rules = []Rule{
	{Name: "url", Pattern: regexp.MustCompile(`(?:https?://|www\.)\S*`)},
	{Name: "tag", Pattern: regexp.MustCompile(`<[^>]*>`)},
	{Name: "media", Pattern: regexp.MustCompile(`\[(?:` + ReplyKeyword + `[^\]]*\]\s*:?|(?:` + strings.Join(MediaKeywords, "|") + `)[^\]]*\])`)},
	{Name: "reply", Pattern: regexp.MustCompile(`\[(?:` + ReplyKeyword + `\s*)?u_[^:\]]*:[^\]]*\]\s*:?`)},
	{Name: "citation", Pattern: regexp.MustCompile(`\[\d+\]`)},
	{Name: "footer", Pattern: regexp.MustCompile(`(?is)(?:资源|resource)\s*[:：]\s*\d+\s*(?:个文件|files?)\s*-\s*[^:：\n]*[:：].*$`)},
	{Name: "whitespace", Pattern: regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`), Replace: " "},
}

// Rules returns a copy of the default rule table in application order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Normalize strips known noise from one raw message body and returns a
// single trimmed line. It never fails; unknown noise passes through.
func Normalize(raw string) string {
	return Apply(rules, raw)
}

// Apply runs the table in order, then trims, and repeats until the text
// stops changing. Removing one token can expose another (for example
// "[1[2]]"), so a single pass is not idempotent.
//
// The loop terminates for any table whose patterns never match the empty
// string: a pass that changes the text either shortens it or turns a
// non-space whitespace rune into a plain space.
func Apply(table []Rule, s string) string {
	for {
		next := applyOnce(table, s)
		if next == s {
			return s
		}
		s = next
	}
}

func applyOnce(table []Rule, s string) string {
	for _, r := range table {
		s = r.Pattern.ReplaceAllLiteralString(s, r.Replace)
	}
	return strings.TrimSpace(s)
}
