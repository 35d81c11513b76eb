package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/setlist/internal/testutil"
	"github.com/aidanlsb/setlist/internal/vcs"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// withStdin points os.Stdin at a file holding input for the test's duration.
func withStdin(t *testing.T, input string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	orig := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = orig
		_ = f.Close()
	})
}

// withFakeGit replaces the git runner for the test's duration.
func withFakeGit(t *testing.T) *testutil.FakeRunner {
	t.Helper()
	runner := testutil.NewFakeRunner()
	prev := newGitRunner
	newGitRunner = func() vcs.Runner { return runner }
	t.Cleanup(func() { newGitRunner = prev })
	return runner
}

// resetFlags restores every flag on every command to its default so package
// level flag variables do not leak between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	cfg = nil
	resolvedConfigPath = ""
}

// runCLI executes rootCmd with args against p, using a config file inside the
// planner's directory, and returns stdout.
func runCLI(t *testing.T, p *testutil.TestPlanner, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"--file", p.Path, "--config", filepath.Join(p.Dir, "config.toml")}, args...)
	return runArgs(t, full...)
}

// runArgs executes rootCmd with exactly args and returns stdout.
func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })
	rootCmd.SetArgs(args)

	var err error
	out := captureStdout(t, func() {
		err = Execute()
	})
	return out, err
}
