// Package config handles setlist configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// DefaultPlannerFile is the planner document, relative to the working directory.
	DefaultPlannerFile = "planner-data.toml"
	// DefaultCommitMessage is used for every commit unless overridden.
	DefaultCommitMessage = "Update daily goals and top deliverables"
	// DefaultHistoryFile is stored next to config.toml.
	DefaultHistoryFile = "history.db"

	// EnvPlannerFile overrides planner_file.
	EnvPlannerFile = "SETLIST_FILE"
	// EnvCommitMessage overrides commit_message.
	EnvCommitMessage = "SETLIST_COMMIT_MESSAGE"
)

// Config represents the setlist configuration.
type Config struct {
	// PlannerFile is the path of the planner document.
	PlannerFile string `toml:"planner_file"`

	// CommitMessage is the fixed message for every update commit.
	CommitMessage string `toml:"commit_message"`

	// Push controls whether updates are pushed after committing (default true).
	Push *bool `toml:"push"`

	// History controls whether committed runs are recorded (default true).
	History *bool `toml:"history"`

	// HistoryFile is the run history database. Relative paths resolve
	// against the config file's directory.
	HistoryFile string `toml:"history_file"`

	// Goals lists the blocks whose descriptions are prompted for, in order.
	// Empty means DefaultGoals.
	Goals []Goal `toml:"goals"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// Goal is one prompted block description.
type Goal struct {
	// Titles are the accepted block titles. The first title present in the
	// document (with a description) wins; later entries are historical aliases.
	Titles []string `toml:"titles"`

	// Question is shown when prompting.
	Question string `toml:"question"`

	// Label names the goal in messages. Defaults to the first title.
	Label string `toml:"label,omitempty"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0" to "255") or hex color ("#RRGGBB").
	Accent string `toml:"accent"`
}

// DefaultGoals returns the built-in goal blocks.
func DefaultGoals() []Goal {
	return []Goal{
		{Titles: []string{"LBA Deep Work"}, Question: "What is your LBA Deep Work goal today?"},
		{Titles: []string{"RyanBlunden.dev Deep Work"}, Question: "What is your RyanBlunden.dev Deep Work goal today?"},
		{Titles: []string{"Production"}, Question: "What is your Production goal today?"},
		{
			Titles:   []string{"L&D / Research Block", "R&D / Research", "R&D / Research Block", "Research"},
			Question: "What is your R&D goal today?",
			Label:    "R&D/Research",
		},
	}
}

// DisplayLabel returns the goal's name for messages.
func (g Goal) DisplayLabel() string {
	if strings.TrimSpace(g.Label) != "" {
		return g.Label
	}
	if len(g.Titles) > 0 {
		return g.Titles[0]
	}
	return ""
}

// GetPlannerFile returns the planner document path.
func (c *Config) GetPlannerFile() string {
	if strings.TrimSpace(c.PlannerFile) != "" {
		return c.PlannerFile
	}
	return DefaultPlannerFile
}

// GetCommitMessage returns the commit message.
func (c *Config) GetCommitMessage() string {
	if strings.TrimSpace(c.CommitMessage) != "" {
		return c.CommitMessage
	}
	return DefaultCommitMessage
}

// PushEnabled reports whether updates are pushed.
func (c *Config) PushEnabled() bool {
	return c.Push == nil || *c.Push
}

// HistoryEnabled reports whether committed runs are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// GetGoals returns the configured goals, or DefaultGoals.
func (c *Config) GetGoals() []Goal {
	if len(c.Goals) == 0 {
		return DefaultGoals()
	}
	return c.Goals
}

// HistoryPath resolves the history database path against configPath's
// directory.
func (c *Config) HistoryPath(configPath string) string {
	p := strings.TrimSpace(c.HistoryFile)
	if p == "" {
		p = DefaultHistoryFile
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(configPath), filepath.FromSlash(p))
}

// Validate checks the goal list. Missing questions are filled in.
func (c *Config) Validate() error {
	for i := range c.Goals {
		g := &c.Goals[i]
		var titles []string
		for _, title := range g.Titles {
			if t := strings.TrimSpace(title); t != "" {
				titles = append(titles, t)
			}
		}
		if len(titles) == 0 {
			return fmt.Errorf("goals[%d]: at least one title is required", i)
		}
		g.Titles = titles
		if strings.TrimSpace(g.Question) == "" {
			g.Question = fmt.Sprintf("What is your %s goal today?", g.DisplayLabel())
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvPlannerFile)); v != "" {
		c.PlannerFile = v
	}
	if v := strings.TrimSpace(getenv(EnvCommitMessage)); v != "" {
		c.CommitMessage = v
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from path. A missing file yields an empty
// config.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config, nil
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/setlist/config.toml first (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "setlist", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "setlist", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
