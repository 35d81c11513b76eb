package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/aidanlsb/setlist/internal/vcs"
)

// FakeRunner is a vcs.Runner that records every invocation instead of
// executing it.
type FakeRunner struct {
	mu    sync.Mutex
	Calls [][]string // name followed by args
	Dirs  []string

	// Results maps "name arg1 arg2..." to the result to return. Unlisted
	// commands succeed with empty output.
	Results map[string]vcs.Result
}

// NewFakeRunner returns a runner that answers the rev-parse queries with
// branch "main" and commit "abc1234".
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Results: map[string]vcs.Result{
		"git rev-parse --abbrev-ref HEAD": {Stdout: "main\n"},
		"git rev-parse --short HEAD":      {Stdout: "abc1234\n"},
	}}
}

// Fail makes the command given by argv exit with code 1 and the given stderr.
func (f *FakeRunner) Fail(stderr string, argv ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Results == nil {
		f.Results = make(map[string]vcs.Result)
	}
	f.Results[strings.Join(argv, " ")] = vcs.Result{Stderr: stderr, ExitCode: 1}
	return f
}

func (f *FakeRunner) Run(_ context.Context, dir, name string, args ...string) (vcs.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	argv := append([]string{name}, args...)
	f.Calls = append(f.Calls, argv)
	f.Dirs = append(f.Dirs, dir)
	return f.Results[strings.Join(argv, " ")], nil
}

// Commands returns each recorded invocation joined with spaces.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, argv := range f.Calls {
		out = append(out, strings.Join(argv, " "))
	}
	return out
}
