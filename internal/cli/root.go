// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/setlist/internal/config"
	"github.com/aidanlsb/setlist/internal/ui"
	"github.com/aidanlsb/setlist/internal/vcs"
)

// envFile is read from the working directory before env overrides apply.
const envFile = ".env"

var (
	// Global flags
	configPath string
	fileFlag   string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
)

// newGitRunner builds the runner for git commands. Tests replace it.
var newGitRunner = func() vcs.Runner { return vcs.ExecRunner{} }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "setlist",
	Short: "Update today's goals and top deliverables in planner-data.toml",
	Long: `setlist updates the goal descriptions and top deliverables of the Daily
Setlist planner, then commits and pushes the change.

Run without a subcommand to be prompted for every goal and deliverable.
Press Enter to keep the current value.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "help", "completion", "init":
			return nil
		}

		if err := config.LoadEnvFile(envFile); err != nil {
			fmt.Fprintln(os.Stderr, ui.Warning(err.Error()))
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix the file or run 'setlist config show'")
		}
		cfg.ApplyEnv(os.Getenv)
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
	RunE: runUpdate,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errAlreadyReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Path to the planner document (overrides SETLIST_FILE and planner_file)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	addCommitFlags(rootCmd.Flags())
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return cfg
}

// getPlannerPath returns the planner document path: --file, then
// SETLIST_FILE, then planner_file, then the default.
func getPlannerPath() string {
	if strings.TrimSpace(fileFlag) != "" {
		return fileFlag
	}
	return getConfig().GetPlannerFile()
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	loadedCfg, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, resolvedPath, nil
}

// statusOut is where human-readable progress goes. It is stderr in JSON mode
// so stdout carries only the envelope.
func statusOut() io.Writer {
	if jsonOutput {
		return os.Stderr
	}
	return os.Stdout
}
