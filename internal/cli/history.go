package cli

import (
	"fmt"
	"strconv"

	"github.com/lazypower/monologue/internal/report"
	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historySpeaker string
	historyDelete  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List archived runs",
	Long:  "List recent archived runs. With a run ID, print that run's messages\nor, with --delete, remove it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs")
	historyCmd.Flags().StringVarP(&historySpeaker, "speaker", "s", "", "Only runs for this speaker")
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "Delete the given run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		if historyDelete {
			if err := db.DeleteRun(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run #%d\n", id)
			return nil
		}
		run, err := db.GetRun(id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %d not found", id)
		}
		msgs, err := db.GetRunMessages(id)
		if err != nil {
			return err
		}
		report.Messages(cmd.OutOrStdout(), run, msgs)
		return nil
	}

	if historyDelete {
		return fmt.Errorf("--delete needs a run id")
	}

	runs, err := db.GetRecentRuns(historySpeaker, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	report.Runs(cmd.OutOrStdout(), runs)
	return nil
}
