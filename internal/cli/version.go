package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/setlist/internal/buildinfo"
)

const defaultModulePath = "github.com/aidanlsb/setlist"

type versionInfo struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show setlist version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()
		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}
		info.write(os.Stdout)
		return nil
	},
}

func (v versionInfo) write(w io.Writer) {
	fmt.Fprintf(w, "setlist %s (%s, %s)\n", v.Version, v.GoVersion, v.Platform)
	if v.Commit == "" {
		return
	}
	commit := v.Commit
	if v.Modified {
		commit += "-dirty"
	}
	if v.CommitTime != "" {
		commit += " " + v.CommitTime
	}
	fmt.Fprintf(w, "commit %s\n", commit)
}

// currentVersionInfo prefers module build info and falls back to the
// ldflags-injected buildinfo values.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
	}
	goos, goarch := runtime.GOOS, runtime.GOARCH

	if bi, ok := readBuildInfo(); ok && bi != nil {
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}

		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		if v := settings["GOOS"]; v != "" {
			goos = v
		}
		if v := settings["GOARCH"]; v != "" {
			goarch = v
		}
		info.Commit = settings["vcs.revision"]
		info.CommitTime = settings["vcs.time"]
		info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
	}
	info.Platform = goos + "/" + goarch

	if info.Version == "devel" && buildinfo.Version != "" && buildinfo.Version != "(devel)" {
		info.Version = buildinfo.Version
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}
	return info
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
