package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/lazypower/monologue/internal/config"
	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/report"
	"github.com/lazypower/monologue/internal/store"
	"github.com/lazypower/monologue/internal/transcript"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "monologue [input] [speaker] [output]",
	Short: "Extract one speaker's messages from a chat log export",
	Long: `Monologue scans a chat log export, keeps the records of one speaker,
strips media placeholders, reply headers, links and other noise, and writes
the cleaned messages as a single transcript file.

With no arguments the configured defaults are used and announced.`,
	Args:          validateArgs,
	RunE:          runExtract,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

var (
	configPath string
	verbose    bool
	cfg        config.Config

	extractPolicy  string
	extractFormat  string
	extractDedupe  bool
	extractPreview int
	extractArchive bool
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.monologue/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-record diagnostics")

	rootCmd.Flags().StringVar(&extractPolicy, "policy", "", "Content termination: single-line or until-next-record")
	rootCmd.Flags().StringVar(&extractFormat, "format", "", "Output format: single-line (':' joined) or multi-line")
	rootCmd.Flags().BoolVar(&extractDedupe, "dedupe", false, "Drop repeated messages, keeping the first of each")
	rootCmd.Flags().IntVar(&extractPreview, "preview", -1, "Number of preview lines to print")
	rootCmd.Flags().BoolVar(&extractArchive, "archive", false, "Record the run in the archive database")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

func validateArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0, 2, 3:
		return nil
	}
	return fmt.Errorf("expected no arguments or <input> <speaker> [output], got %d", len(args))
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := extractOptions(cmd, args)
	if err != nil {
		return err
	}

	eng := engine.New(logger)
	if extractArchive || cfg.Archive.Enabled {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		eng.Archive = db
	}

	log := logger.WithFields(logrus.Fields{"input": opts.Input, "speaker": opts.Speaker})
	res, err := eng.Run(context.Background(), opts)
	if err != nil {
		if engine.IsWarning(err) {
			if res != nil {
				log = log.WithFields(logrus.Fields{"matched": res.Matched, "dropped": res.Dropped})
			}
			log.Debug("run produced no transcript")
			report.Warning(cmd.ErrOrStderr(), err)
			return nil
		}
		return err
	}

	log.WithFields(logrus.Fields{"matched": res.Matched, "kept": res.Kept, "bytes": res.Written.Bytes}).Debug("run complete")
	report.Success(cmd.OutOrStdout(), res)
	return nil
}

// extractOptions merges positional args, flags and config into engine
// options. With no args the config values are used and announced.
func extractOptions(cmd *cobra.Command, args []string) (engine.Options, error) {
	ec := cfg.Extract
	if len(args) == 0 {
		report.Defaults(cmd.OutOrStdout(), ec.Input, ec.Speaker, ec.Output)
	} else {
		ec.Input, ec.Speaker = args[0], args[1]
		ec.Output = config.Default().Extract.Output
		if len(args) > 2 {
			ec.Output = args[2]
		}
	}

	if extractPolicy != "" {
		ec.Policy = extractPolicy
	}
	if extractFormat != "" {
		ec.Format = extractFormat
	}
	if extractDedupe {
		ec.Dedupe = true
	}
	if extractPreview >= 0 {
		ec.Preview = extractPreview
	}

	policy, err := transcript.ParsePolicy(ec.Policy)
	if err != nil {
		return engine.Options{}, err
	}
	format, err := transcript.ParseFormat(ec.Format)
	if err != nil {
		return engine.Options{}, err
	}

	return engine.Options{
		Input:   ec.Input,
		Speaker: ec.Speaker,
		Output:  ec.Output,
		Policy:  policy,
		Format:  format,
		Dedupe:  ec.Dedupe,
		Preview: ec.Preview,
	}, nil
}

// openDB opens the archive database for CLI commands.
func openDB() (*store.DB, error) {
	return store.Open(cfg.Archive.Path)
}
