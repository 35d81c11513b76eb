package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/setlist/internal/history"
	"github.com/aidanlsb/setlist/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent committed updates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		if !c.HistoryEnabled() {
			return handleErrorMsg(ErrConfigInvalid, "history is disabled", "Set history = true in config.toml")
		}

		path := c.HistoryPath(resolvedConfigPath)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"runs": []history.Run{}}, &Meta{Count: 0})
				return nil
			}
			fmt.Println("No history yet.")
			return nil
		}

		store, err := history.Open(path)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer store.Close()

		runs, err := store.Recent(context.Background(), historyLimit)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			if runs == nil {
				runs = []history.Run{}
			}
			outputSuccess(map[string]interface{}{"runs": runs}, &Meta{Count: len(runs)})
			return nil
		}

		if len(runs) == 0 {
			fmt.Println("No history yet.")
			return nil
		}
		for i, run := range runs {
			if i > 0 {
				fmt.Println()
			}
			printRun(run)
		}
		return nil
	},
}

func printRun(run history.Run) {
	when := run.RecordedAt.Local().Format("Mon 2 Jan 2006 15:04")
	ref := run.Commit
	if run.Branch != "" {
		ref = run.Branch + "@" + run.Commit
	}
	if !run.Pushed {
		ref += " (not pushed)"
	}
	fmt.Printf("%s  %s\n", ui.Header(when), ui.Hint(ref))
	for _, g := range run.Goals {
		fmt.Printf("  %s: %s\n", ui.Accent.Render(g.Title), ui.Placeholder(g.Description))
	}
	for i, d := range run.Deliverables {
		fmt.Printf("  %d. %s\n", i+1, ui.Placeholder(d))
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
