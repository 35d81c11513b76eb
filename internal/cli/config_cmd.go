package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/setlist/internal/config"
	"github.com/aidanlsb/setlist/internal/ui"
)

var (
	configSetPlannerFile   string
	configSetCommitMessage string
	configSetPush          bool
	configSetHistory       bool
	configSetHistoryFile   string
	configSetUIAccent      string
)

func configExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func configData() map[string]interface{} {
	c := getConfig()

	goals := make([]map[string]interface{}, 0, len(c.GetGoals()))
	for _, g := range c.GetGoals() {
		goals = append(goals, map[string]interface{}{
			"label":    g.DisplayLabel(),
			"titles":   g.Titles,
			"question": g.Question,
		})
	}

	return map[string]interface{}{
		"config_path":    resolvedConfigPath,
		"exists":         configExists(resolvedConfigPath),
		"planner_file":   getPlannerPath(),
		"commit_message": c.GetCommitMessage(),
		"push":           c.PushEnabled(),
		"history":        c.HistoryEnabled(),
		"history_file":   c.HistoryPath(resolvedConfigPath),
		"ui": map[string]interface{}{
			"accent": strings.TrimSpace(c.UI.Accent),
		},
		"goals": goals,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if isJSONOutput() {
		outputSuccess(configData(), nil)
		return nil
	}

	c := getConfig()
	if configExists(resolvedConfigPath) {
		fmt.Printf("config:         %s\n", ui.FilePath(resolvedConfigPath))
	} else {
		fmt.Printf("config:         %s %s\n", resolvedConfigPath, ui.Hint("(not created; run 'setlist config init')"))
	}
	fmt.Printf("planner_file:   %s\n", getPlannerPath())
	fmt.Printf("commit_message: %s\n", c.GetCommitMessage())
	fmt.Printf("push:           %t\n", c.PushEnabled())
	fmt.Printf("history:        %t\n", c.HistoryEnabled())
	fmt.Printf("history_file:   %s\n", c.HistoryPath(resolvedConfigPath))
	if v := strings.TrimSpace(c.UI.Accent); v != "" {
		fmt.Printf("ui.accent:      %s\n", v)
	}

	fmt.Println("goals:")
	for _, g := range c.GetGoals() {
		fmt.Printf("  %s\n", ui.Accent.Render(g.DisplayLabel()))
		fmt.Printf("    question: %s\n", g.Question)
		if len(g.Titles) > 1 {
			fmt.Printf("    titles:   %s\n", strings.Join(g.Titles, ", "))
		}
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage setlist config.toml settings",
	Long: `Manage setlist config.toml settings.

Use this to initialize, inspect, and edit the planner path, commit behavior,
history, and goal blocks.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolveConfigPath(configPath)

		created, err := config.CreateDefault(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": targetPath,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Println(ui.Successf("Created config: %s", ui.FilePath(targetPath)))
		} else {
			fmt.Printf("Config already exists: %s\n", targetPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reload without env overrides so they are not persisted.
		fileCfg, err := config.LoadFrom(resolvedConfigPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		var changed []string
		if cmd.Flags().Changed("planner-file") {
			fileCfg.PlannerFile = strings.TrimSpace(configSetPlannerFile)
			changed = append(changed, "planner_file")
		}
		if cmd.Flags().Changed("commit-message") {
			fileCfg.CommitMessage = strings.TrimSpace(configSetCommitMessage)
			changed = append(changed, "commit_message")
		}
		if cmd.Flags().Changed("push") {
			v := configSetPush
			fileCfg.Push = &v
			changed = append(changed, "push")
		}
		if cmd.Flags().Changed("history") {
			v := configSetHistory
			fileCfg.History = &v
			changed = append(changed, "history")
		}
		if cmd.Flags().Changed("history-file") {
			fileCfg.HistoryFile = strings.TrimSpace(configSetHistoryFile)
			changed = append(changed, "history_file")
		}
		if cmd.Flags().Changed("ui-accent") {
			fileCfg.UI.Accent = strings.TrimSpace(configSetUIAccent)
			changed = append(changed, "ui.accent")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields to set", "Pass at least one flag, e.g. --planner-file ~/site/planner-data.toml")
		}

		if err := config.SaveTo(resolvedConfigPath, fileCfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": resolvedConfigPath,
				"changed":     changed,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated %s in %s", strings.Join(changed, ", "), ui.FilePath(resolvedConfigPath)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().StringVar(&configSetPlannerFile, "planner-file", "", "Set the planner document path")
	configSetCmd.Flags().StringVar(&configSetCommitMessage, "commit-message", "", "Set the commit message")
	configSetCmd.Flags().BoolVar(&configSetPush, "push", true, "Push after committing")
	configSetCmd.Flags().BoolVar(&configSetHistory, "history", true, "Record committed runs")
	configSetCmd.Flags().StringVar(&configSetHistoryFile, "history-file", "", "Set the history database path (absolute or relative to config directory)")
	configSetCmd.Flags().StringVar(&configSetUIAccent, "ui-accent", "", "Set UI accent color (ANSI 0-255 or #RRGGBB)")

	rootCmd.AddCommand(configCmd)
}
