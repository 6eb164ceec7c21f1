package cli

import (
	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/report"
	"github.com/lazypower/monologue/internal/transcript"
	"github.com/spf13/cobra"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Check a written transcript",
	Long: `Read a transcript back and report its size, its first 100 characters and
how many messages it splits into. A .json file holding an array of strings or
{content|message} objects is flattened instead. Without a path the configured
output file is used, falling back to the same name with a .json extension.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "", "Transcript format: single-line or multi-line")
}

func runInspect(cmd *cobra.Command, args []string) error {
	formatName := cfg.Extract.Format
	if inspectFormat != "" {
		formatName = inspectFormat
	}
	format, err := transcript.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var c *engine.Corpus
	if len(args) > 0 {
		c, err = engine.LoadCorpus(args[0], format)
	} else {
		c, err = engine.LoadCorpusWithFallback(cfg.Extract.Output, format)
	}
	if err != nil {
		return err
	}

	report.Corpus(cmd.OutOrStdout(), c.Path, c.Text, c.Segments)
	return nil
}
