// Package planner runs the goal and deliverable update workflow against a
// planner document.
package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/setlist/internal/atomicfile"
	"github.com/aidanlsb/setlist/internal/config"
	"github.com/aidanlsb/setlist/internal/history"
	"github.com/aidanlsb/setlist/internal/plandoc"
	"github.com/aidanlsb/setlist/internal/ui"
	"github.com/aidanlsb/setlist/internal/vcs"
)

var (
	// ErrMissingFile indicates the planner document does not exist.
	ErrMissingFile = errors.New("missing file")
	// ErrNoAliasMatch indicates none of a goal's titles is present.
	ErrNoAliasMatch = errors.New("no block title matched")
	// ErrInvalidValue indicates a value that cannot be stored on one line.
	ErrInvalidValue = errors.New("invalid value")
)

// checkSingleLine rejects values containing a line break, which would split
// the quoted field across lines.
func checkSingleLine(v string) error {
	if strings.ContainsAny(v, "\r\n") {
		return fmt.Errorf("%w: %q must not contain line breaks", ErrInvalidValue, v)
	}
	return nil
}

// AliasError reports that none of a goal's accepted titles is present.
type AliasError struct {
	Label  string
	Titles []string
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("could not find an %s block title", e.Label)
}

func (e *AliasError) Is(target error) bool {
	return target == ErrNoAliasMatch
}

// Asker asks one question and returns the resolved answer.
type Asker interface {
	Ask(question, current string, normalize bool) (string, error)
}

// Committer is the set of git operations the editor drives.
type Committer interface {
	Stage(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
	Branch(ctx context.Context) (string, error)
	ShortHash(ctx context.Context) (string, error)
}

// Recorder stores a committed run.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Options configures an Editor.
type Options struct {
	Path          string
	CommitMessage string
	Push          bool
	DryRun        bool
	Goals         []config.Goal
}

// Editor updates one planner document. Asker is only needed by Run; Recorder
// is optional.
type Editor struct {
	Options
	Asker    Asker
	Git      Committer
	Recorder Recorder
	Out      io.Writer
	Err      io.Writer
}

// GoalState is a goal resolved to a concrete block title.
type GoalState struct {
	Goal  config.Goal
	Title string
	// Raw is the description as it appears in the document, still escaped.
	Raw string
}

// Current returns the decoded description.
func (g GoalState) Current() string {
	return plandoc.Unescape(g.Raw)
}

// Snapshot holds the current values read from a document.
type Snapshot struct {
	Goals []GoalState
	// Deliverables holds exactly plandoc.DeliverableCount raw entries.
	Deliverables []string
}

// Answers holds decoded values to write, one per goal and deliverable.
type Answers struct {
	Goals        []string
	Deliverables []string
}

// Result describes the outcome of Run or Set.
type Result struct {
	File         string         `json:"file"`
	Changed      bool           `json:"changed"`
	DryRun       bool           `json:"dry_run,omitempty"`
	Pushed       bool           `json:"pushed"`
	Branch       string         `json:"branch,omitempty"`
	Commit       string         `json:"commit,omitempty"`
	Goals        []history.Goal `json:"goals"`
	Deliverables []string       `json:"deliverables"`
	RunID        string         `json:"run_id,omitempty"`
}

func (e *Editor) out() io.Writer {
	if e.Out == nil {
		return io.Discard
	}
	return e.Out
}

func (e *Editor) errOut() io.Writer {
	if e.Err == nil {
		return io.Discard
	}
	return e.Err
}

func (e *Editor) goals() []config.Goal {
	if len(e.Goals) == 0 {
		return config.DefaultGoals()
	}
	return e.Goals
}

// Load reads the planner document.
func (e *Editor) Load() (*plandoc.Document, error) {
	doc, err := plandoc.Load(e.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, e.Path)
		}
		return nil, err
	}
	return doc, nil
}

// Current resolves every goal to a block title and reads the current values.
func (e *Editor) Current(doc *plandoc.Document) (*Snapshot, error) {
	snap := &Snapshot{}
	for _, g := range e.goals() {
		state, err := resolveGoal(doc, g)
		if err != nil {
			return nil, err
		}
		snap.Goals = append(snap.Goals, state)
	}
	snap.Deliverables = doc.ReadDeliverables()
	return snap, nil
}

func resolveGoal(doc *plandoc.Document, g config.Goal) (GoalState, error) {
	title := g.Titles[0]
	if len(g.Titles) > 1 {
		found, ok := doc.FirstTitle(g.Titles)
		if !ok {
			return GoalState{}, &AliasError{Label: g.DisplayLabel(), Titles: g.Titles}
		}
		title = found
	}

	raw, err := doc.BlockDescription(title)
	if err != nil {
		if errors.Is(err, plandoc.ErrNoBlocks) {
			return GoalState{}, fmt.Errorf("could not find block with title %q: %w", title, err)
		}
		return GoalState{}, err
	}
	return GoalState{Goal: g, Title: title, Raw: raw}, nil
}

// Prompt asks for every goal, then every deliverable.
func (e *Editor) Prompt(snap *Snapshot) (Answers, error) {
	var answers Answers
	for _, g := range snap.Goals {
		v, err := e.Asker.Ask(g.Goal.Question, g.Current(), true)
		if err != nil {
			return Answers{}, err
		}
		answers.Goals = append(answers.Goals, v)
	}
	for i, raw := range snap.Deliverables {
		v, err := e.Asker.Ask(fmt.Sprintf("Top deliverable %d:", i+1), plandoc.Unescape(raw), false)
		if err != nil {
			return Answers{}, err
		}
		answers.Deliverables = append(answers.Deliverables, v)
	}
	return answers, nil
}

// Apply writes answers into a copy of doc. Values equal to the current
// decoded value are written back in their original escaped form.
func Apply(doc *plandoc.Document, snap *Snapshot, answers Answers) (*plandoc.Document, error) {
	updated := doc.Clone()

	for i, g := range snap.Goals {
		raw := g.Raw
		if i < len(answers.Goals) && answers.Goals[i] != g.Current() {
			if err := checkSingleLine(answers.Goals[i]); err != nil {
				return nil, err
			}
			raw = plandoc.Escape(answers.Goals[i])
		}
		if err := updated.ReplaceBlockDescriptionRaw(g.Title, raw); err != nil {
			return nil, err
		}
	}

	entries := plandoc.FitDeliverables(snap.Deliverables)
	for i := range entries {
		if i < len(answers.Deliverables) && answers.Deliverables[i] != plandoc.Unescape(entries[i]) {
			if err := checkSingleLine(answers.Deliverables[i]); err != nil {
				return nil, err
			}
			entries[i] = plandoc.Escape(answers.Deliverables[i])
		}
	}
	if err := updated.WriteDeliverablesRaw(entries); err != nil {
		return nil, err
	}
	return updated, nil
}

// Run loads the document, prompts for new values, and writes and commits the
// result when it differs from the original.
func (e *Editor) Run(ctx context.Context) (*Result, error) {
	doc, err := e.Load()
	if err != nil {
		return nil, err
	}
	snap, err := e.Current(doc)
	if err != nil {
		return nil, err
	}
	answers, err := e.Prompt(snap)
	if err != nil {
		return nil, err
	}
	return e.commit(ctx, doc, snap, answers)
}

// commit applies answers and, when the bytes changed, writes the document,
// stages, commits, pushes and records the run.
func (e *Editor) commit(ctx context.Context, doc *plandoc.Document, snap *Snapshot, answers Answers) (*Result, error) {
	updated, err := Apply(doc, snap, answers)
	if err != nil {
		return nil, err
	}

	res := &Result{File: e.Path, DryRun: e.DryRun}
	for _, g := range snap.Goals {
		raw, err := updated.BlockDescription(g.Title)
		if err != nil {
			return nil, err
		}
		res.Goals = append(res.Goals, history.Goal{Title: g.Title, Description: plandoc.Unescape(raw)})
	}
	for _, raw := range updated.ReadDeliverables() {
		res.Deliverables = append(res.Deliverables, plandoc.Unescape(raw))
	}

	if bytes.Equal(updated.Bytes(), doc.Bytes()) {
		fmt.Fprintln(e.out(), "No changes detected.")
		return res, nil
	}
	res.Changed = true

	if e.DryRun {
		fmt.Fprintln(e.out(), ui.Infof("Would update %s", ui.FilePath(e.Path)))
		for _, line := range changedLines(doc, updated) {
			fmt.Fprintln(e.out(), line)
		}
		for _, argv := range e.plannedCommands() {
			fmt.Fprintln(e.out(), ui.Hint("would run: "+vcs.FormatCommand(argv)))
		}
		return res, nil
	}

	if err := atomicfile.WriteFile(e.Path, updated.Bytes(), 0); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", e.Path, err)
	}
	fmt.Fprintf(e.out(), "Updated %s\n", e.Path)

	if err := e.Git.Stage(ctx, filepath.Base(e.Path)); err != nil {
		return nil, err
	}
	if err := e.Git.Commit(ctx, e.CommitMessage); err != nil {
		return nil, err
	}
	if e.Push {
		if err := e.Git.Push(ctx); err != nil {
			return nil, err
		}
		res.Pushed = true
	}
	if res.Branch, err = e.Git.Branch(ctx); err != nil {
		return nil, err
	}
	if res.Commit, err = e.Git.ShortHash(ctx); err != nil {
		return nil, err
	}

	e.record(ctx, res)
	return res, nil
}

func (e *Editor) plannedCommands() [][]string {
	cmds := [][]string{
		{"git", "add", filepath.Base(e.Path)},
		{"git", "commit", "-m", e.CommitMessage},
	}
	if e.Push {
		cmds = append(cmds, []string{"git", "push"})
	}
	return cmds
}

func (e *Editor) record(ctx context.Context, res *Result) {
	if e.Recorder == nil {
		return
	}
	path := e.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	run, err := e.Recorder.Record(ctx, history.Run{
		File:         path,
		Branch:       res.Branch,
		Commit:       res.Commit,
		Message:      e.CommitMessage,
		Pushed:       res.Pushed,
		Goals:        res.Goals,
		Deliverables: res.Deliverables,
	})
	if err != nil {
		fmt.Fprintln(e.errOut(), ui.Warningf("could not record history: %v", err))
		return
	}
	res.RunID = run.ID
}

// changedLines lists removed and added lines in document order, assuming the
// two documents differ only in replaced regions.
func changedLines(before, after *plandoc.Document) []string {
	a, b := before.Texts(), after.Texts()
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	var out []string
	for _, line := range a[prefix : len(a)-suffix] {
		out = append(out, ui.Muted.Render("- "+line))
	}
	for _, line := range b[prefix : len(b)-suffix] {
		out = append(out, ui.Accent.Render("+ "+line))
	}
	return out
}
