// Package vcs drives the git command-line client.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is the captured outcome of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command in dir. A non-zero exit is reported
// through Result.ExitCode, not as an error; err is reserved for commands that
// could not run at all.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// ExecRunner runs commands with os/exec, capturing stdout and stderr.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, err
}
