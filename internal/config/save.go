package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/setlist/internal/atomicfile"
)

type persistedConfig struct {
	PlannerFile   *string              `toml:"planner_file,omitempty"`
	CommitMessage *string              `toml:"commit_message,omitempty"`
	Push          *bool                `toml:"push,omitempty"`
	History       *bool                `toml:"history,omitempty"`
	HistoryFile   *string              `toml:"history_file,omitempty"`
	UI            *persistedUISettings `toml:"ui,omitempty"`
	Goals         []Goal               `toml:"goals,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes cfg to path atomically. Unset values are omitted so defaults
// keep applying.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		PlannerFile:   nonEmptyPtr(cfg.PlannerFile),
		CommitMessage: nonEmptyPtr(cfg.CommitMessage),
		Push:          cfg.Push,
		History:       cfg.History,
		HistoryFile:   nonEmptyPtr(cfg.HistoryFile),
		Goals:         cfg.Goals,
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := atomicfile.WriteFileIfChanged(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

const defaultConfigTemplate = `# setlist configuration

# Planner document, relative to the working directory (env: SETLIST_FILE)
# planner_file = "planner-data.toml"

# Commit message for every update (env: SETLIST_COMMIT_MESSAGE)
# commit_message = "Update daily goals and top deliverables"

# Push after committing
# push = true

# Record committed runs in a local SQLite database
# history = true
# history_file = "history.db"

# Optional accent color: ANSI code (0-255) or hex (#RRGGBB)
# [ui]
# accent = "39"

# Prompted goal blocks, in order. The first title found in the document wins;
# later titles are accepted historical names.
# [[goals]]
# titles = ["LBA Deep Work"]
# question = "What is your LBA Deep Work goal today?"
#
# [[goals]]
# titles = ["L&D / Research Block", "R&D / Research", "R&D / Research Block", "Research"]
# question = "What is your R&D goal today?"
# label = "R&D/Research"
`

// CreateDefault writes a commented default config to path unless a file is
// already there. It reports whether the file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
