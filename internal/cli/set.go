package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/setlist/internal/plandoc"
	"github.com/aidanlsb/setlist/internal/planner"
	"github.com/aidanlsb/setlist/internal/slugs"
)

var setDeliverable int

var setCmd = &cobra.Command{
	Use:   "set <block> <text> | --deliverable N <text>",
	Short: "Set one goal or deliverable without prompting",
	Long: `Sets a single value and commits it like 'setlist update'.

<block> is a block title, a configured alias or label, or the title's slug
(for example lba-deep-work). Goal text gets a trailing period; deliverable
text is stored as entered.`,
	Example: `  setlist set lba-deep-work "Finish the chapter draft"
  setlist set "Production" "Record the intro"
  setlist set --deliverable 2 "Send invoice"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := planner.SetRequest{Deliverable: setDeliverable}
		if cmd.Flags().Changed("deliverable") {
			if len(args) != 1 {
				return handleErrorMsg(ErrInvalidInput, "expected exactly one argument with --deliverable", "setlist set --deliverable N <text>")
			}
			if setDeliverable == 0 {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid deliverable number: 0 (expected 1-%d)", plandoc.DeliverableCount), "")
			}
			req.Value = args[0]
		} else {
			if len(args) != 2 {
				return handleErrorMsg(ErrMissingArgument, "expected <block> and <text>", "setlist set <block> <text>")
			}
			req.Block, req.Value = args[0], args[1]
		}

		editor, cleanup := newEditor()
		defer cleanup()

		result, err := editor.Set(context.Background(), req)
		if err != nil {
			return handleEditorError(err)
		}
		if isJSONOutput() {
			outputSuccess(result, nil)
		}
		return nil
	},
	ValidArgsFunction: completeBlockSlugs,
}

// completeBlockSlugs offers the slugs of every block in the planner.
func completeBlockSlugs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || cmd.Flags().Changed("deliverable") {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if cfg == nil {
		loaded, path, err := loadGlobalConfigWithPath()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg, resolvedConfigPath = loaded, path
	}
	doc, err := plandoc.Load(getPlannerPath())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, title := range doc.Titles() {
		out = append(out, fmt.Sprintf("%s\t%s", slugs.BlockSlug(title), title))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	setCmd.Flags().IntVarP(&setDeliverable, "deliverable", "d", 0, fmt.Sprintf("Set deliverable N (1-%d) instead of a block", plandoc.DeliverableCount))
	addCommitFlags(setCmd.Flags())
	rootCmd.AddCommand(setCmd)
}
