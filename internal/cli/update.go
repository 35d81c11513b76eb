package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/setlist/internal/history"
	"github.com/aidanlsb/setlist/internal/planner"
	"github.com/aidanlsb/setlist/internal/prompt"
	"github.com/aidanlsb/setlist/internal/ui"
	"github.com/aidanlsb/setlist/internal/vcs"
)

var (
	commitMessage string
	noPush        bool
	dryRun        bool
)

// addCommitFlags registers the flags shared by every command that commits.
func addCommitFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&commitMessage, "message", "m", "", "Commit message (overrides SETLIST_COMMIT_MESSAGE and commit_message)")
	fs.BoolVar(&noPush, "no-push", false, "Commit without pushing")
	fs.BoolVar(&dryRun, "dry-run", false, "Show what would change without writing or committing")
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Prompt for today's goals and deliverables, then commit",
	Long: `Prompts for each goal block description and the three top deliverables.

Each prompt shows the current value; press Enter to keep it. Goal entries get
a trailing period. When anything changed, the planner is written and then
staged, committed and pushed with git.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	editor, cleanup := newEditor()
	defer cleanup()

	editor.Asker = prompt.New(os.Stdin, statusOut())
	if !prompt.IsInteractive() && !isJSONOutput() {
		fmt.Fprintln(os.Stderr, ui.Hint("stdin is not a terminal; reading answers line by line"))
	}

	result, err := editor.Run(context.Background())
	if err != nil {
		return handleEditorError(err)
	}
	if isJSONOutput() {
		outputSuccess(result, nil)
	}
	return nil
}

// newEditor builds an editor from config and flags. The returned cleanup
// closes the history store, if one was opened.
func newEditor() (*planner.Editor, func()) {
	c := getConfig()
	path := getPlannerPath()

	message := c.GetCommitMessage()
	if strings.TrimSpace(commitMessage) != "" {
		message = commitMessage
	}

	git := vcs.New(filepath.Dir(path))
	git.Runner = newGitRunner()
	git.Echo = statusOut()

	editor := &planner.Editor{
		Options: planner.Options{
			Path:          path,
			CommitMessage: message,
			Push:          c.PushEnabled() && !noPush,
			DryRun:        dryRun,
			Goals:         c.GetGoals(),
		},
		Git: git,
		Out: statusOut(),
		Err: os.Stderr,
	}

	cleanup := func() {}
	if c.HistoryEnabled() && !dryRun {
		store, err := history.Open(c.HistoryPath(resolvedConfigPath))
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Warningf("history disabled: %v", err))
		} else {
			editor.Recorder = store
			cleanup = func() { _ = store.Close() }
		}
	}
	return editor, cleanup
}

func init() {
	addCommitFlags(updateCmd.Flags())
	rootCmd.AddCommand(updateCmd)
}
