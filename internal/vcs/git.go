package vcs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/setlist/internal/shellquote"
)

// CommandError reports a git invocation that failed, with its captured output.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // set when the command could not be started
}

func (e *CommandError) Error() string {
	cmd := FormatCommand(e.Args)
	if e.Err != nil {
		return fmt.Sprintf("command failed: %s: %v", cmd, e.Err)
	}
	return fmt.Sprintf("command failed: %s (exit status %d)", cmd, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// FormatCommand renders argv as a shell-pasteable command line. Empty
// arguments and arguments containing whitespace are always quoted.
func FormatCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n") {
			parts[i] = shellquote.Quote(arg)
			continue
		}
		parts[i] = shellquote.QuoteIfNeeded(arg)
	}
	return strings.Join(parts, " ")
}

// Git runs git subcommands in Dir. Successful stdout is copied to Echo when
// it is set.
type Git struct {
	Runner Runner
	Dir    string
	Binary string
	Echo   io.Writer
}

// New returns a Git that shells out to "git" in dir.
func New(dir string) *Git {
	return &Git{Runner: ExecRunner{}, Dir: dir, Binary: "git"}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	runner := g.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	res, err := runner.Run(ctx, g.Dir, bin, args...)
	if err != nil || res.ExitCode != 0 {
		return "", &CommandError{
			Args:     append([]string{bin}, args...),
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Err:      err,
		}
	}
	if g.Echo != nil && res.Stdout != "" {
		fmt.Fprint(g.Echo, res.Stdout)
	}
	return res.Stdout, nil
}

// Stage runs `git add <path>`.
func (g *Git) Stage(ctx context.Context, path string) error {
	_, err := g.run(ctx, "add", path)
	return err
}

// Commit runs `git commit -m <message>`.
func (g *Git) Commit(ctx context.Context, message string) error {
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}

// Push runs `git push`.
func (g *Git) Push(ctx context.Context) error {
	_, err := g.run(ctx, "push")
	return err
}

// Branch returns the current branch name.
func (g *Git) Branch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	return strings.TrimSpace(out), err
}

// ShortHash returns the abbreviated HEAD commit hash.
func (g *Git) ShortHash(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--short", "HEAD")
	return strings.TrimSpace(out), err
}
