// Package report renders run results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/store"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	quoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).PaddingLeft(2)
)

// Defaults announces the compiled-in configuration used when no arguments
// were given.
func Defaults(w io.Writer, input, speaker, output string) {
	fmt.Fprintln(w, labelStyle.Render("using configured defaults:"))
	fmt.Fprintf(w, "  input:   %s\n", input)
	fmt.Fprintf(w, "  speaker: %s\n", speaker)
	fmt.Fprintf(w, "  output:  %s\n\n", output)
}

// Success prints the summary of a written transcript.
func Success(w io.Writer, res *engine.Result) {
	fmt.Fprintf(w, "%s extracted %d messages for %q to %s\n",
		okStyle.Render("ok"), res.Kept, res.Speaker, res.Written.Path)
	fmt.Fprintf(w, "  %s %d matched, %d empty after cleaning",
		labelStyle.Render("records:"), res.Matched, res.Dropped)
	if res.Duplicates > 0 {
		fmt.Fprintf(w, ", %d duplicates removed", res.Duplicates)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s chars (%s)\n",
		labelStyle.Render("size:"), humanize.Comma(int64(res.Written.Chars)), humanize.Bytes(uint64(res.Written.Bytes)))
	if res.RunID != 0 {
		fmt.Fprintf(w, "  %s run #%d\n", labelStyle.Render("archived:"), res.RunID)
	}
	Preview(w, res.Preview)
}

// Preview prints the leading lines of a transcript.
func Preview(w io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render("  preview:"))
	for _, l := range lines {
		fmt.Fprintln(w, quoteStyle.Render(l))
	}
}

// Warning prints a recoverable outcome.
func Warning(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", warnStyle.Render("warning:"), err)
}

// Error prints a failed outcome.
func Error(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errStyle.Render("error:"), err)
}

// Corpus prints the inspection summary of a written transcript.
func Corpus(w io.Writer, path string, text string, segments []string) {
	runes := []rune(text)
	head := string(runes[:min(len(runes), 100)])

	fmt.Fprintf(w, "%s %s\n", okStyle.Render("ok"), path)
	fmt.Fprintf(w, "  %s %s chars\n", labelStyle.Render("size:"), humanize.Comma(int64(len(runes))))
	fmt.Fprintf(w, "  %s %s...\n", labelStyle.Render("head:"), strings.ReplaceAll(head, "\n", " "))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("segments:"), len(segments))
}

// Runs prints a table of archived runs.
func Runs(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs.")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%-4d %-16s %4d/%-4d %-8s %s -> %s  %s\n",
			r.ID, r.Speaker, r.Kept, r.Matched, humanize.Bytes(uint64(r.Bytes)),
			r.InputPath, r.OutputPath, labelStyle.Render(humanize.Time(time.UnixMilli(r.CreatedAt))))
	}
}

// Messages prints the messages of one archived run.
func Messages(w io.Writer, run *store.Run, msgs []store.Message) {
	fmt.Fprintf(w, "## run #%d: %s (%s, %s)\n\n", run.ID, run.Speaker, run.Policy, run.Format)
	for _, m := range msgs {
		if m.Timestamp != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("["+m.Timestamp+"]"), m.Body)
		} else {
			fmt.Fprintln(w, m.Body)
		}
	}
}
