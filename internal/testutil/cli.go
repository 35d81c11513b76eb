package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	buildOnce   sync.Once
	builtBinary string
	buildErr    error
)

// CLIResult is one run of the setlist binary with --json.
type CLIResult struct {
	OK       bool
	Data     map[string]interface{}
	Error    *CLIError
	RawJSON  string
	Stderr   string
	ExitCode int
}

// CLIError mirrors the envelope's error object.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// BuildCLI compiles ./cmd/setlist once per test binary and returns its path.
func BuildCLI(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		root, err := findProjectRoot()
		if err != nil {
			buildErr = err
			return
		}
		dir, err := os.MkdirTemp("", "setlist-cli-bin-*")
		if err != nil {
			buildErr = err
			return
		}
		name := "setlist"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		builtBinary = filepath.Join(dir, name)

		cmd := exec.Command("go", "build", "-o", builtBinary, "./cmd/setlist")
		cmd.Dir = root
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build: %w\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatalf("failed to build CLI: %v", buildErr)
	}
	return builtBinary
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// RunCLI runs setlist against the planner with --json and returns the parsed
// result. The working directory is the planner's directory and the config
// file is config.toml inside it, so no user configuration leaks in.
func (p *TestPlanner) RunCLI(args ...string) *CLIResult {
	p.t.Helper()
	return p.RunCLIWithStdin("", args...)
}

// RunCLIWithStdin is RunCLI with stdin fed from the given string.
func (p *TestPlanner) RunCLIWithStdin(stdin string, args ...string) *CLIResult {
	p.t.Helper()

	argv := append([]string{"--file", p.Path, "--config", filepath.Join(p.Dir, "config.toml"), "--json"}, args...)
	cmd := exec.Command(BuildCLI(p.t), argv...)
	cmd.Dir = p.Dir
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	result := &CLIResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			p.t.Fatalf("failed to run setlist: %v", err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	result.RawJSON, result.Stderr = stdout.String(), stderr.String()

	var resp struct {
		OK    bool                   `json:"ok"`
		Data  map[string]interface{} `json:"data"`
		Error *CLIError              `json:"error"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "failed to parse JSON output: " + err.Error(),
		}
		return result
	}
	result.OK, result.Data, result.Error = resp.OK, resp.Data, resp.Error
	return result
}

// MustSucceed fails the test unless the command reported ok.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got %s\nstdout: %s\nstderr: %s", msg, r.RawJSON, r.Stderr)
	}
	return r
}

// MustFail fails the test unless the command failed with code and exit status 1.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	if r.OK || r.Error == nil {
		t.Fatalf("expected failure with %s, got ok\nstdout: %s", code, r.RawJSON)
	}
	if r.Error.Code != code {
		t.Fatalf("expected error code %s, got %s: %s", code, r.Error.Code, r.Error.Message)
	}
	if r.ExitCode != 1 {
		t.Fatalf("expected exit status 1, got %d", r.ExitCode)
	}
	return r
}

// DataString extracts a string from Data.
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// DataBool extracts a bool from Data.
func (r *CLIResult) DataBool(key string) bool {
	b, _ := r.Data[key].(bool)
	return b
}
