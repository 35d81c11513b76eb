package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/setlist/internal/plandoc"
	"github.com/aidanlsb/setlist/internal/ui"
)

var showYAML bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current plan",
	Long: `Shows the planner's goals, top deliverables and blocks.

Output is rendered markdown on a terminal and plain markdown otherwise.
Use --yaml or --json for structured output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getPlannerPath()
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("missing file: %s", path), "Pass --file or set planner_file in config.toml")
			}
			return handleError(ErrFileReadError, err, "")
		}

		plan, err := plandoc.DecodePlan(data)
		if err != nil {
			return handleError(ErrMalformedDocument, err, "")
		}

		if isJSONOutput() {
			outputSuccess(plan, &Meta{Count: len(plan.Blocks)})
			return nil
		}
		if showYAML {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(plan); err != nil {
				return handleError(ErrInternal, err, "")
			}
			return enc.Close()
		}

		md := plan.Markdown()
		display := ui.NewDisplayContext()
		if !display.IsTTY {
			fmt.Print(md)
			return nil
		}
		rendered, err := ui.RenderMarkdown(md, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Print(md)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output as YAML")
	rootCmd.AddCommand(showCmd)
}
